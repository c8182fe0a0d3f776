// Package builtins holds the static table of language builtins offered
// during `builtin` completion and rendered on hover (spec.md §4.8),
// precomputed once and cached process-wide (spec.md §5's "process-wide
// lazy singleton" clause). Grounded on lentilus-zeta/internal/lsp/config.go's
// package-level default-value pattern, generalized from a config default
// to a completion table built with sync.Once.
package builtins

import "sync"

// Builtin describes one `@name(...)` builtin function.
type Builtin struct {
	Name      string
	Signature string
	Doc       string
	Snippet   string
}

var (
	once  sync.Once
	table []Builtin
)

// All returns the builtin table, building it on first call.
func All() []Builtin {
	once.Do(buildTable)
	return table
}

// Lookup finds a builtin by name.
func Lookup(name string) (Builtin, bool) {
	for _, b := range All() {
		if b.Name == name {
			return b, true
		}
	}
	return Builtin{}, false
}

func buildTable() {
	table = []Builtin{
		{
			Name:      "import",
			Signature: "@import(comptime path: []const u8) type",
			Doc:       "Loads the file at path and exposes its top-level `pub` declarations as a namespace.",
			Snippet:   `import("${1:path}")`,
		},
		{
			Name:      "sizeOf",
			Signature: "@sizeOf(comptime T: type) comptime_int",
			Doc:       "The size in bytes of T when stored in memory.",
			Snippet:   `sizeOf(${1:T})`,
		},
		{
			Name:      "typeOf",
			Signature: "@typeOf(value: anytype) type",
			Doc:       "The compile-time type of value.",
			Snippet:   `typeOf(${1:value})`,
		},
		{
			Name:      "as",
			Signature: "@as(comptime T: type, value: anytype) T",
			Doc:       "Coerces value to type T.",
			Snippet:   `as(${1:T}, ${2:value})`,
		},
		{
			Name:      "intCast",
			Signature: "@intCast(comptime T: type, value: anytype) T",
			Doc:       "Narrows or widens an integer to T, trapping on overflow in safe modes.",
			Snippet:   `intCast(${1:T}, ${2:value})`,
		},
		{
			Name:      "compileError",
			Signature: "@compileError(comptime message: []const u8) noreturn",
			Doc:       "Fails compilation with message, reported at the call site.",
			Snippet:   `compileError("${1:message}")`,
		},
		{
			Name:      "panic",
			Signature: "@panic(message: []const u8) noreturn",
			Doc:       "Terminates the program with message and a stack trace.",
			Snippet:   `panic("${1:message}")`,
		},
		{
			Name:      "errorName",
			Signature: "@errorName(err: anyerror) []const u8",
			Doc:       "The declared name of an error value.",
			Snippet:   `errorName(${1:err})`,
		},
		{
			Name:      "fieldParentPtr",
			Signature: "@fieldParentPtr(comptime T: type, comptime field: []const u8, ptr: *anyopaque) *T",
			Doc:       "Recovers a pointer to the containing struct from a pointer to one of its fields.",
			Snippet:   `fieldParentPtr(${1:T}, "${2:field}", ${3:ptr})`,
		},
		{
			Name:      "embedFile",
			Signature: "@embedFile(comptime path: []const u8) *const [N]u8",
			Doc:       "Embeds the contents of path as a compile-time byte array.",
			Snippet:   `embedFile("${1:path}")`,
		},
	}
}
