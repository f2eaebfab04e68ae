package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Clip describes a segment file to create: its time range and body.
type Clip struct {
	Start int64
	End   int64
	Ext   string
	Body  string
}

// WriteClips creates "<start>-<end><ext>" files in dir and returns their
// paths in argument order. An empty Ext means ".mp4"; an empty Body means
// the file name.
func WriteClips(t testing.TB, dir string, clips ...Clip) []string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	paths := make([]string, 0, len(clips))
	for _, clip := range clips {
		ext := clip.Ext
		if ext == "" {
			ext = ".mp4"
		}
		name := fmt.Sprintf("%d-%d%s", clip.Start, clip.End, ext)
		body := clip.Body
		if body == "" {
			body = "[" + name + "]"
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		paths = append(paths, path)
	}
	return paths
}

// Span is shorthand for a Clip with default extension and body.
func Span(start, end int64) Clip {
	return Clip{Start: start, End: end}
}
