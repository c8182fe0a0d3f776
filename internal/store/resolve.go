package store

import (
	"path"

	"quartz/internal/uri"
)

// UriFromImport implements spec.md §4.5 uri_from_import: resolve an
// import string against (a) the owner's build file package table, (b)
// the standard library root, or (c) a relative path from the owner's
// directory. Returns ok=false if none resolves, and if the resolved
// target does not actually exist — spec.md's boundary property "Import
// of a missing file: returns null from uri_from_import; no handle is
// created" — so callers never need to special-case a phantom target.
func (s *Store) UriFromImport(owner *Handle, importString string) (string, bool) {
	target := ""

	if owner.AssociatedBuild != nil {
		if pkg, ok := owner.AssociatedBuild.Packages[importString]; ok {
			target = pkg
		}
	}

	if target == "" {
		target = s.stdRootResolve(importString)
	}

	if target == "" {
		ownerPath, err := uri.URIToPath(owner.URI)
		if err != nil {
			return "", false
		}
		target = uri.PathToURI(path.Join(path.Dir(ownerPath), importString))
	}

	if !s.targetExists(target) {
		return "", false
	}
	return target, true
}

// targetExists reports whether target is already a known handle, or is
// readable from disk, without creating a handle for it.
func (s *Store) targetExists(targetURI string) bool {
	s.mu.Lock()
	_, known := s.handles[targetURI]
	reader := s.reader
	s.mu.Unlock()
	if known {
		return true
	}
	if reader == nil {
		return false
	}
	p, err := uri.URIToPath(targetURI)
	if err != nil {
		return false
	}
	_, err = reader.ReadFile(p)
	return err == nil
}

func (s *Store) stdRootResolve(importString string) string {
	s.mu.Lock()
	root := s.stdRoot
	s.mu.Unlock()
	if root == "" || importString != "std" {
		return ""
	}
	return uri.PathToURI(path.Join(root, "std.quartz"))
}
