// Package config loads zls.json-shaped server configuration: once via
// initialize's InitializationOptions, once from an on-disk file, both
// overlaid onto a package-level default (spec.md §6).
package config

import (
	"encoding/json"
	"fmt"
	"io"
)

// Config is spec.md §6's recognized zls.json fields.
type Config struct {
	ZigExePath           string `json:"zig_exe_path"`
	ZigLibPath           string `json:"zig_lib_path"`
	BuildRunnerPath      string `json:"build_runner_path"`
	WarnStyle            bool   `json:"warn_style"`
	EnableSemanticTokens bool   `json:"enable_semantic_tokens"`
	EnableSnippets       bool   `json:"enable_snippets"`
	OperatorCompletions  bool   `json:"operator_completions"`
	SkipStdReferences    bool   `json:"skip_std_references"`
}

var defaultConfig = Config{
	WarnStyle:            false,
	EnableSemanticTokens: true,
	EnableSnippets:       false,
	OperatorCompletions:  true,
	SkipStdReferences:    false,
}

// Load overlays v (typically initialize's InitializationOptions, an
// arbitrary JSON-ish value from glsp) onto defaultConfig. Fields absent
// from v keep their default.
func Load(v any) (Config, error) {
	cfg := defaultConfig

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}

	// only fields present in v will overwrite.
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}

	return cfg, nil
}

// LoadFromJSON reads a zls.json file's contents into a Config, overlaid
// onto defaultConfig the same way Load does.
func LoadFromJSON(r io.Reader) (Config, error) {
	cfg := defaultConfig

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
