// Package toolchain invokes the external compiler binary spec.md treats
// as an out-of-scope collaborator: piping a document through
// `<exe> fmt --stdin` for formatting, and running a build-runner script
// to extract a build file's package table. Grounded on
// Strob0t-CodeForge/internal/adapter/svn/provider.go's execCommand-field
// injection, generalized from svn subcommands to the target toolchain's.
package toolchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// Toolchain wraps subprocess invocations of the configured compiler
// executable. execCommand is swappable for tests, same discipline the
// teacher's svn.Provider uses.
type Toolchain struct {
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New creates a Toolchain that shells out via os/exec.
func New() *Toolchain {
	return &Toolchain{execCommand: exec.CommandContext}
}

// Format implements spec.md §4.8's Formatting handler: pipes source
// through `<exePath> fmt --stdin` and returns the formatted bytes. On
// any failure it returns the error; callers translate that into "no
// edits" per spec.md's "if the process fails, return an empty result".
func (tc *Toolchain) Format(ctx context.Context, exePath string, source []byte) ([]byte, error) {
	if exePath == "" {
		return nil, fmt.Errorf("toolchain: no executable configured")
	}
	cmd := tc.execCommand(ctx, exePath, "fmt", "--stdin")
	cmd.Stdin = bytes.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("toolchain fmt: %s: %w", stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

// describeBuildOutput is the build-runner script's expected JSON shape:
// a flat package-name -> root-file-path table.
type describeBuildOutput struct {
	Packages map[string]string `json:"packages"`
}

// DescribeBuild runs the configured build-runner script against
// buildFilePath and parses its JSON output into a package table,
// returning the same (table, error) pair as store.DescribeBuildFunc so a
// closure over it can be passed to Store.ApplySave.
func (tc *Toolchain) DescribeBuild(ctx context.Context, runnerPath, buildFilePath string) (map[string]string, error) {
	if runnerPath == "" {
		return nil, fmt.Errorf("toolchain: no build runner configured")
	}
	cmd := tc.execCommand(ctx, runnerPath, "describe-build", buildFilePath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("build runner: %s: %w", stderr.String(), err)
	}

	var out describeBuildOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("build runner: malformed output: %w", err)
	}
	return out.Packages, nil
}
