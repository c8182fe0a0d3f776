package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestScanSkipsIgnoredDirsAndFiles(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.zig"), "const a = 1;")
	mustWrite(t, filepath.Join(root, "a.txt"), "not source")
	mustWrite(t, filepath.Join(root, ".git", "config"), "ignored")
	if err := os.MkdirAll(filepath.Join(root, "zig-cache"), 0755); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(root, "zig-cache", "b.zig"), "const b = 1;")
	mustWrite(t, filepath.Join(root, "sub", "c.zig"), "const c = 1;")

	var found []string
	Scan(root, IgnoreDir,
		func(path string, info os.FileInfo) bool { return filepath.Ext(path) != ".zig" },
		func(path string, contents []byte) { found = append(found, path) },
	)
	sort.Strings(found)

	want := []string{filepath.Join(root, "a.zig"), filepath.Join(root, "sub", "c.zig")}
	sort.Strings(want)
	if len(found) != len(want) {
		t.Fatalf("got %v, want %v", found, want)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Errorf("got %v, want %v", found, want)
			break
		}
	}
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}
