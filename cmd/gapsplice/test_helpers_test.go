package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gapsplice/internal/config"
	"gapsplice/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	configPath := filepath.Join(homeDir, ".config", "gapsplice", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nsource_dir = %q\nfiller_dir = %q\nwork_dir = %q\noutput_dir = %q\nlog_dir = %q\n\n[timeline]\nunit = %q\nrequire_coverage = %t\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.SourceDir,
		cfg.Paths.FillerDir,
		cfg.Paths.WorkDir,
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
		cfg.Timeline.Unit,
		cfg.Timeline.RequireCoverage,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeScenario lays out two recordings around a 100-unit hole and one
// filler long enough to bridge it.
func writeScenario(t *testing.T, cfg *config.Config) {
	t.Helper()
	testsupport.WriteClips(t, cfg.Paths.SourceDir,
		testsupport.Clip{Start: 0, End: 100, Body: "[A]"},
		testsupport.Clip{Start: 200, End: 300, Body: "[B]"},
	)
	testsupport.WriteClips(t, cfg.Paths.FillerDir, testsupport.Clip{Start: 100, End: 500, Body: "[gap]"})
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
