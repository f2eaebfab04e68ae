package ffprobe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "Audio"},
		},
		Format: Format{Duration: "123.5", Size: "1000"},
	}
	if got := result.StreamCount("video"); got != 1 {
		t.Fatalf("expected 1 video stream, got %d", got)
	}
	if got := result.StreamCount("audio"); got != 2 {
		t.Fatalf("expected 2 audio streams, got %d", got)
	}
	duration, err := result.Duration()
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if duration != 123500*time.Millisecond {
		t.Fatalf("unexpected duration: %v", duration)
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	for _, value := range []string{"", "bad", "-1", "NaN"} {
		result := Result{Format: Format{Duration: value, Size: "-1"}}
		if _, err := result.Duration(); !errors.Is(err, ErrNoDuration) {
			t.Fatalf("duration %q: expected ErrNoDuration, got %v", value, err)
		}
		if result.SizeBytes() != 0 {
			t.Fatalf("expected size 0, got %d", result.SizeBytes())
		}
	}
}

func TestProbeDecodesStubOutput(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n{\"streams\":[{\"index\":0,\"codec_type\":\"video\"}],\"format\":{\"duration\":\"42.000\"}}\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Probe(context.Background(), stub, "/tmp/out.mp4")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if result.StreamCount("video") != 1 {
		t.Fatalf("expected one video stream, got %+v", result.Streams)
	}
	if d, _ := result.Duration(); d != 42*time.Second {
		t.Fatalf("unexpected duration %v", d)
	}
}

func TestProbeReportsFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'moov atom not found' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	_, err := Probe(context.Background(), stub, "/tmp/out.mp4")
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "moov atom not found"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected %q in %v", want, err)
	}
}

func TestProbeRejectsEmptyPath(t *testing.T) {
	if _, err := Probe(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
