package config

import (
	"strings"
	"testing"
)

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	cfg, err := Load(map[string]any{"warn_style": true, "zig_exe_path": "/usr/bin/zig"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.WarnStyle {
		t.Error("expected warn_style to be overridden to true")
	}
	if cfg.ZigExePath != "/usr/bin/zig" {
		t.Errorf("expected zig_exe_path override, got %q", cfg.ZigExePath)
	}
	if !cfg.EnableSemanticTokens {
		t.Error("expected enable_semantic_tokens to keep its default of true")
	}
}

func TestLoadFromJSONOverlaysOntoDefaults(t *testing.T) {
	cfg, err := LoadFromJSON(strings.NewReader(`{"skip_std_references": true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.SkipStdReferences {
		t.Error("expected skip_std_references to be overridden to true")
	}
	if !cfg.OperatorCompletions {
		t.Error("expected operator_completions to keep its default of true")
	}
}

func TestLoadFromJSONPropagatesDecodeError(t *testing.T) {
	if _, err := LoadFromJSON(strings.NewReader(`not json`)); err == nil {
		t.Error("expected malformed JSON to return an error")
	}
}
