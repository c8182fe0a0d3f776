package astadapter

import (
	"testing"

	"quartz/internal/langast"
)

func TestFnProtoView(t *testing.T) {
	tree := langast.Parse([]byte(`pub fn add(a: i32, b: i32) i32 { return a + b; }`))
	a := Wrap(tree)
	decls := a.RootDecls()
	if len(decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(decls))
	}
	proto := a.FnProto(decls[0])
	if proto == nil {
		t.Fatal("expected FnProto view")
	}
	if proto.Name != "add" || !proto.Pub || len(proto.Params) != 2 {
		t.Errorf("unexpected proto: %+v", proto)
	}
}

func TestVarDeclAndContainerField(t *testing.T) {
	tree := langast.Parse([]byte(`const P = struct { x: i32, y: i32 };`))
	a := Wrap(tree)
	decls := a.RootDecls()
	vd := a.VarDecl(decls[0])
	if vd == nil || vd.Name != "P" {
		t.Fatalf("unexpected var decl: %+v", vd)
	}
	container := a.ContainerDecl(vd.Init)
	if container == nil || len(container.Members) != 2 {
		t.Fatalf("unexpected container: %+v", container)
	}
	f := a.ContainerField(container.Members[0])
	if f == nil || f.Name != "x" {
		t.Fatalf("unexpected field: %+v", f)
	}
}
