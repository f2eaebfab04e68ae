package segment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gapsplice/internal/services"
)

// ScanOptions narrows what Scan accepts.
type ScanOptions struct {
	// Extensions limits accepted files (".mp4", ".ts"). Empty accepts any
	// extension. Matching is case insensitive.
	Extensions []string
	// Skipped, when set, is called for every entry Scan ignores.
	Skipped func(name, reason string)
}

// ListingError reports a directory that could not be listed.
type ListingError struct {
	Dir  string
	Role Role
	Err  error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("list %s directory %q: %v", e.Role, e.Dir, e.Err)
}

func (e *ListingError) Unwrap() []error {
	marker := services.ErrConfiguration
	if errors.Is(e.Err, fs.ErrNotExist) {
		marker = services.ErrNotFound
	}
	return []error{marker, e.Err}
}

// InvalidRangeError reports a file name whose end does not follow its start.
type InvalidRangeError struct {
	Path    string
	StartAt int64
	EndAt   int64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("segment %q: end %d must be after start %d", e.Path, e.EndAt, e.StartAt)
}

func (e *InvalidRangeError) Unwrap() error {
	return services.ErrValidation
}

// Scan lists dir and returns a segment for every regular file whose base name
// matches "<start>-<end>" and carries an extension. Results follow directory
// listing order.
func Scan(dir string, role Role, opts ScanOptions) ([]Segment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ListingError{Dir: dir, Role: role, Err: err}
	}
	allowed := extensionSet(opts.Extensions)
	skip := opts.Skipped
	if skip == nil {
		skip = func(string, string) {}
	}

	segments := make([]Segment, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			if entry.Type()&fs.ModeSymlink == 0 {
				skip(name, "not a regular file")
				continue
			}
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil || !info.Mode().IsRegular() {
				skip(name, "not a regular file")
				continue
			}
		}
		ext := filepath.Ext(name)
		if ext == "" || ext == name {
			skip(name, "no extension")
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[strings.ToLower(ext)]; !ok {
				skip(name, "extension not accepted")
				continue
			}
		}
		base := strings.TrimSuffix(name, ext)
		start, end, ok := ParseName(base)
		if !ok {
			skip(name, "name is not <start>-<end>")
			continue
		}
		path := filepath.Join(dir, name)
		if end <= start {
			return nil, &InvalidRangeError{Path: path, StartAt: start, EndAt: end}
		}
		segments = append(segments, Segment{
			Path:    path,
			Name:    base,
			Ext:     ext,
			StartAt: start,
			EndAt:   end,
			Role:    role,
		})
	}
	return segments, nil
}

func extensionSet(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}
