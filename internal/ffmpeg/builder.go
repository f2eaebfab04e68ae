package ffmpeg

import (
	"fmt"
	"os"
	"strings"
)

func baseArgs(binary string) []string {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return []string{binary, "-hide_banner", "-nostdin", "-y", "-loglevel", "error"}
}

// TrimArgs copies length units of src starting offset units in.
func TrimArgs(binary string, unit Unit, src string, offset, length int64, dst string) []string {
	args := baseArgs(binary)
	args = append(args,
		"-ss", unit.Timestamp(offset),
		"-i", src,
		"-t", unit.Timestamp(length),
		"-map", "0",
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		dst,
	)
	return args
}

// RemuxArgs rewrites src into a fresh container without re-encoding.
func RemuxArgs(binary, src, dst string) []string {
	args := baseArgs(binary)
	args = append(args,
		"-fflags", "+genpts",
		"-i", src,
		"-map", "0",
		"-c", "copy",
		dst,
	)
	return args
}

// ConcatArgs joins the files named in listPath using the concat demuxer.
func ConcatArgs(binary, listPath, dst string) []string {
	args := baseArgs(binary)
	args = append(args,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-map", "0",
		"-c", "copy",
		"-movflags", "+faststart",
		dst,
	)
	return args
}

// ConcatList renders a concat demuxer list for inputs.
func ConcatList(inputs []string) string {
	var b strings.Builder
	for _, input := range inputs {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(input, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

// WriteConcatList writes ConcatList(inputs) to path.
func WriteConcatList(path string, inputs []string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("concat list %s: no inputs", path)
	}
	if err := os.WriteFile(path, []byte(ConcatList(inputs)), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}
