package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"gapsplice/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.SourceDir != filepath.Join(workDir, "source") {
		t.Fatalf("unexpected source dir: %q", cfg.Paths.SourceDir)
	}
	if cfg.Paths.FillerDir != filepath.Join(workDir, "gap") {
		t.Fatalf("unexpected filler dir: %q", cfg.Paths.FillerDir)
	}
	wantLog := filepath.Join(tempHome, ".local", "share", "gapsplice", "logs")
	if cfg.Paths.LogDir != wantLog {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLog)
	}
	if cfg.OutputPath() != filepath.Join(workDir, "output", "output.mp4") {
		t.Fatalf("unexpected output path: %q", cfg.OutputPath())
	}
	if cfg.HistoryPath() != filepath.Join(wantLog, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.Timeline.Unit != config.UnitSeconds {
		t.Fatalf("expected seconds unit by default, got %q", cfg.Timeline.Unit)
	}
	if !cfg.Timeline.RequireCoverage {
		t.Fatal("expected coverage check enabled by default")
	}
	if cfg.Media.TrimWorkers != 1 || !cfg.Media.VerifyOutput {
		t.Fatalf("unexpected media defaults: %#v", cfg.Media)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected binaries: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.SourceDir); !os.IsNotExist(err) {
		t.Fatalf("input folders must not be created, stat err=%v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "gapsplice.toml")

	type payload struct {
		Paths struct {
			SourceDir  string `toml:"source_dir"`
			FillerDir  string `toml:"filler_dir"`
			OutputName string `toml:"output_name"`
		} `toml:"paths"`
		Timeline struct {
			Unit       string   `toml:"unit"`
			Extensions []string `toml:"extensions"`
		} `toml:"timeline"`
		Media struct {
			TrimWorkers int `toml:"trim_workers"`
		} `toml:"media"`
	}
	custom := payload{}
	custom.Paths.SourceDir = filepath.Join(tempDir, "primary")
	custom.Paths.FillerDir = filepath.Join(tempDir, "filler")
	custom.Paths.OutputName = "program.mkv"
	custom.Timeline.Unit = "MS"
	custom.Timeline.Extensions = []string{"MP4", ".mkv", "mp4", " "}
	custom.Media.TrimWorkers = 4

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q to be used, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.SourceDir != custom.Paths.SourceDir || cfg.Paths.FillerDir != custom.Paths.FillerDir {
		t.Fatalf("unexpected input dirs: %#v", cfg.Paths)
	}
	if cfg.Timeline.Unit != config.UnitMilliseconds {
		t.Fatalf("expected unit normalized to ms, got %q", cfg.Timeline.Unit)
	}
	if got := strings.Join(cfg.Timeline.Extensions, ","); got != ".mp4,.mkv" {
		t.Fatalf("unexpected normalized extensions: %q", got)
	}
	if cfg.Media.TrimWorkers != 4 {
		t.Fatalf("unexpected trim workers: %d", cfg.Media.TrimWorkers)
	}
	if filepath.Base(cfg.OutputPath()) != "program.mkv" {
		t.Fatalf("unexpected output path: %q", cfg.OutputPath())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"unit", "[timeline]\nunit = \"frames\"\n", "timeline.unit"},
		{"same folders", "[paths]\nsource_dir = \"/data/a\"\nfiller_dir = \"/data/a\"\n", "must differ"},
		{"output name", "[paths]\noutput_name = \"nested/out.mp4\"\n", "plain file name"},
		{"output ext", "[paths]\noutput_name = \"out\"\n", "container extension"},
		{"workers", "[media]\ntrim_workers = 99\n", "media.trim_workers"},
		{"log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"unknown key", "[paths]\nsauce_dir = \"x\"\n", "parse config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sample", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Media.DurationSlackSeconds != 0.5 {
		t.Fatalf("unexpected duration slack: %v", cfg.Media.DurationSlackSeconds)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/clips")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "clips") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
