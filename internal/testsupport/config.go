package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"gapsplice/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Source and gap directories are created empty; history lives in the log dir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDir = filepath.Join(base, "source")
	cfgVal.Paths.FillerDir = filepath.Join(base, "gap")
	cfgVal.Paths.WorkDir = filepath.Join(base, "tmp")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{cfgVal.Paths.SourceDir, cfgVal.Paths.FillerDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithUnit sets timeline.unit.
func WithUnit(unit string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timeline.Unit = unit
	}
}

// WithoutCoverage disables timeline.require_coverage.
func WithoutCoverage() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timeline.RequireCoverage = false
	}
}

// WithoutVerify disables ffprobe verification of the output.
func WithoutVerify() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Media.VerifyOutput = false
	}
}

// WithStubbedBinaries installs stub ffmpeg and ffprobe executables and
// prepends them to PATH. The ffmpeg stub copies its input to the output
// (concatenating list entries for concat runs) so renders produce real
// files. The ffprobe stub reports the duration set with SetProbeDuration.
func WithStubbedBinaries() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		stubs := map[string]string{
			"ffmpeg":  ffmpegStub,
			"ffprobe": ffprobeStub,
		}
		for name, script := range stubs {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		SetProbeDuration(b.t, binDir, "0")

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// ProbeSizeBytes is the container size the stub ffprobe reports.
const ProbeSizeBytes = "4096"

// SetProbeDuration changes the duration the stub ffprobe in binDir reports.
func SetProbeDuration(t testing.TB, binDir, seconds string) {
	t.Helper()
	payload := `{"streams":[{"index":0,"codec_type":"video"},{"index":1,"codec_type":"audio"}],"format":{"duration":"` + seconds + `","size":"` + ProbeSizeBytes + `"}}`
	if err := os.WriteFile(filepath.Join(binDir, "probe.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write probe payload: %v", err)
	}
}

// BinDir returns the stub binary directory for a config built with
// WithStubbedBinaries.
func BinDir(cfg *config.Config) string {
	return filepath.Join(BaseDir(cfg), "bin")
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceDir)
}

const ffmpegStub = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffmpeg version stub"
  exit 0
fi
prev=""
src=""
concat=0
for a; do
  if [ "$prev" = "-f" ] && [ "$a" = "concat" ]; then concat=1; fi
  if [ "$prev" = "-i" ]; then src="$a"; fi
  prev="$a"
  last="$a"
done
if [ "$concat" = 1 ]; then
  sed -n "s/^file '\(.*\)'$/\1/p" "$src" | while IFS= read -r f; do cat "$f"; done > "$last"
else
  cat "$src" > "$last"
fi
`

const ffprobeStub = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffprobe version stub"
  exit 0
fi
cat "$(dirname "$0")/probe.json"
`
