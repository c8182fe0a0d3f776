// Package scanner walks a workspace subtree for source files, grounded
// on internal/server/lifecycle_handlers.go's initialize-time directory
// walk generalized from note-cache warming to warming the document
// store's handle table ahead of any file being opened.
package scanner

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// IgnoreDir reports whether a directory should be excluded entirely
// from a workspace scan: dotfiles/VCS directories and the toolchain's
// own cache/output directories.
func IgnoreDir(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "zig-cache", "zig-out", "node_modules":
		return true
	}
	return false
}

// Scan walks the entire subtree under root. Any directory for which
// skipDir returns true is skipped entirely. For each remaining file,
// skipFile is consulted, and if it returns false the file is read and
// callback(path, contents) is invoked. Scan only returns once every
// callback has completed.
func Scan(
	root string,
	skipDir func(path string) bool,
	skipFile func(path string, info fs.FileInfo) bool,
	callback func(path string, contents []byte),
) {
	fileCh := make(chan string, 100)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range fileCh {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Println("scanner: read error:", path, err)
				continue
			}
			callback(path, data)
		}
	}()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Println("scanner: walk error:", err)
			return nil
		}
		if d.IsDir() {
			if path != root && skipDir(path) {
				return fs.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if skipFile(path, info) {
			return nil
		}
		fileCh <- path
		return nil
	})
	if err != nil {
		log.Println("scanner: WalkDir finished with error:", err)
	}

	close(fileCh)
	wg.Wait()
}
