package segment

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapsplice/internal/services"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantStart int64
		wantEnd   int64
		wantOK    bool
	}{
		{name: "simple", input: "1000-2000", wantStart: 1000, wantEnd: 2000, wantOK: true},
		{name: "zero start", input: "0-100", wantStart: 0, wantEnd: 100, wantOK: true},
		{name: "leading zeros", input: "007-010", wantStart: 7, wantEnd: 10, wantOK: true},
		{name: "negative", input: "-5-10", wantOK: false},
		{name: "missing end", input: "100-", wantOK: false},
		{name: "extra part", input: "1-2-3", wantOK: false},
		{name: "letters", input: "clip", wantOK: false},
		{name: "overflow", input: "99999999999999999999-1", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := ParseName(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantStart, start)
				assert.Equal(t, tt.wantEnd, end)
			}
		})
	}
}

func TestScanParsesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "0-100.mp4", "100-200.MP4", "notes.txt", "200-300", ".mp4", "1-2-3.mp4")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "300-400.mp4"), 0o755))

	var skipped []string
	segments, err := Scan(dir, RolePrimary, ScanOptions{Skipped: func(name, _ string) {
		skipped = append(skipped, name)
	}})
	require.NoError(t, err)
	require.Len(t, segments, 2)

	byName := map[string]Segment{}
	for _, seg := range segments {
		byName[seg.Name] = seg
	}
	first := byName["0-100"]
	assert.Equal(t, filepath.Join(dir, "0-100.mp4"), first.Path)
	assert.Equal(t, ".mp4", first.Ext)
	assert.Equal(t, int64(0), first.StartAt)
	assert.Equal(t, int64(100), first.EndAt)
	assert.Equal(t, int64(100), first.Duration())
	assert.Equal(t, RolePrimary, first.Role)
	assert.Equal(t, ".MP4", byName["100-200"].Ext)

	sort.Strings(skipped)
	assert.Equal(t, []string{".mp4", "1-2-3.mp4", "200-300", "300-400.mp4", "notes.txt"}, skipped)
}

func TestScanFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "0-100.mp4", "100-200.ts", "200-300.MKV")

	segments, err := Scan(dir, RoleFiller, ScanOptions{Extensions: []string{"mkv", ".TS"}})
	require.NoError(t, err)
	names := make([]string, 0, len(segments))
	for _, seg := range segments {
		assert.Equal(t, RoleFiller, seg.Role)
		names = append(names, seg.FileName())
	}
	sort.Strings(names)
	assert.Equal(t, []string{"100-200.ts", "200-300.MKV"}, names)
}

func TestScanMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")
	_, err := Scan(dir, RolePrimary, ScanOptions{})
	require.Error(t, err)

	var listing *ListingError
	require.True(t, errors.As(err, &listing))
	assert.Equal(t, dir, listing.Dir)
	assert.True(t, errors.Is(err, services.ErrNotFound))
	assert.Contains(t, err.Error(), "primary")
}

func TestScanNotADirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "file")
	_, err := Scan(filepath.Join(dir, "file"), RoleFiller, ScanOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrConfiguration))
	assert.False(t, errors.Is(err, services.ErrNotFound))
}

func TestScanRejectsEmptyOrInvertedRange(t *testing.T) {
	for _, name := range []string{"100-100.mp4", "200-100.mp4"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, "0-50.mp4", name)
			_, err := Scan(dir, RolePrimary, ScanOptions{})
			var rangeErr *InvalidRangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, filepath.Join(dir, name), rangeErr.Path)
			assert.True(t, errors.Is(err, services.ErrValidation))
		})
	}
}

func TestOrderIsStableAndSorted(t *testing.T) {
	input := []Segment{
		{Name: "c", StartAt: 300, EndAt: 400},
		{Name: "a1", StartAt: 0, EndAt: 100},
		{Name: "b", StartAt: 100, EndAt: 200},
		{Name: "a2", StartAt: 0, EndAt: 50},
	}
	original := append([]Segment(nil), input...)

	ordered := Order(input)

	names := make([]string, len(ordered))
	for i, seg := range ordered {
		names[i] = seg.Name
	}
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, names)
	assert.Equal(t, original, input, "input must not be reordered")
}

func TestOrderPermutationProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for iter := 0; iter < 200; iter++ {
		n := rng.IntN(20)
		input := make([]Segment, n)
		for i := range input {
			start := rng.Int64N(50)
			input[i] = Segment{Name: string(rune('a' + i)), StartAt: start, EndAt: start + 1 + rng.Int64N(10)}
		}

		ordered := Order(input)

		require.Len(t, ordered, n)
		for i := 1; i < len(ordered); i++ {
			require.LessOrEqual(t, ordered[i-1].StartAt, ordered[i].StartAt)
		}
		assert.ElementsMatch(t, input, ordered)
	}
}
