package store

import (
	"path"
	"strings"
)

// BuildFile is spec.md §3's BuildFile: a detected build script alongside
// a source tree, regenerated when the script is saved.
type BuildFile struct {
	URI      string
	Packages map[string]string // package name -> root source file URI
}

// buildFileName is the conventional build-script filename this server
// watches for, the target-language analogue of Zig's build.zig.
const buildFileName = "build.quartz"

// IsBuildFile reports whether docURI names the conventional build script.
func IsBuildFile(docURI string) bool {
	return strings.HasSuffix(docURI, "/"+buildFileName) || docURI == buildFileName
}

// DescribeBuildFunc invokes the toolchain's "describe build" command for
// the build script at uri and returns its package table. Kept as a
// function value so internal/toolchain's subprocess invocation — spec.md
// §1's other out-of-scope collaborator — stays swappable in tests.
type DescribeBuildFunc func(buildFileURI string) (map[string]string, error)

// refreshBuildFile re-runs build discovery and re-assigns every handle
// whose path falls under the build file's directory (longest prefix wins).
// When a persist cache is configured, a successful run is written
// through to it and a failed one falls back to the last persisted table
// instead of leaving every dependent handle without package information.
func (s *Store) refreshBuildFile(h *Handle, describe DescribeBuildFunc) {
	if describe == nil {
		return
	}
	s.mu.Lock()
	pc := s.persist
	s.mu.Unlock()

	packages, err := describe(h.URI)
	if err != nil {
		if pc == nil {
			return
		}
		cached, cerr := pc.Load(h.URI)
		if cerr != nil || cached == nil {
			return
		}
		packages = cached
	} else if pc != nil {
		pc.Store(h.URI, packages)
	}

	bf := &BuildFile{URI: h.URI, Packages: packages}

	s.mu.Lock()
	defer s.mu.Unlock()

	h.AssociatedBuild = bf
	dir := path.Dir(h.URI)
	for otherURI, other := range s.handles {
		if otherURI == h.URI {
			continue
		}
		if isUnderOrDeeperBuildFile(otherURI, dir, other.AssociatedBuild) {
			other.AssociatedBuild = bf
		}
	}
}

// isUnderOrDeeperBuildFile reports whether candidateURI is under dir and
// no closer (longer-prefix) build file already claims it.
func isUnderOrDeeperBuildFile(candidateURI, dir string, existing *BuildFile) bool {
	if !strings.HasPrefix(candidateURI, dir) {
		return false
	}
	if existing == nil {
		return true
	}
	existingDir := path.Dir(existing.URI)
	return len(dir) > len(existingDir)
}
