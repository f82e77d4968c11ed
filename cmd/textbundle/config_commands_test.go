package main

import (
	"os"
	"path/filepath"
	"testing"

	"textbundle/internal/testsupport"
)

func TestConfigInitWritesSample(t *testing.T) {
	env := setupCLITestEnv(t)
	target := env.path("cfg", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigInitDefaultPath(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"config", "init"}, ""); err != nil {
		t.Fatalf("config init: %v", err)
	}
	want := filepath.Join(env.path("home"), ".config", "textbundle", "config.toml")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected config at %s: %v", want, err)
	}
}

func TestConfigValidate(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithLogFile())

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "org.textbundle.test")
	requireContains(t, out, "Scratch directory:")
	requireContains(t, out, "Log directory:")
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.path("bad.toml")
	if err := os.WriteFile(path, []byte("[bundle]\nunknown_key = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, []string{"config", "validate"}, path); err == nil {
		t.Fatal("expected validation error")
	}
	if _, _, err := runCLI(t, []string{"info", "whatever.textbundle"}, path); err == nil {
		t.Fatal("expected config load failure to abort commands")
	}
}

func TestLogLevelOverrideValidated(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"--log-level", "loud", "staging", "list"}, env.configPath); err == nil {
		t.Fatal("expected invalid --log-level to fail")
	}
	if _, _, err := runCLI(t, []string{"--log-level", "debug", "staging", "list"}, env.configPath); err != nil {
		t.Fatalf("debug override: %v", err)
	}
}
