package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"gapsplice/internal/media/ffprobe"
	"gapsplice/internal/services"
)

// verifyOutput probes path, compares its length with want and returns the
// probed duration and container size.
func verifyOutput(ctx context.Context, binary, path string, want time.Duration, slack time.Duration) (time.Duration, int64, error) {
	result, err := ffprobe.Probe(ctx, binary, path)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrExternalTool, "verify", "ffprobe", "", err)
	}
	if result.StreamCount("video") == 0 && result.StreamCount("audio") == 0 {
		return 0, 0, services.Wrap(services.ErrExternalTool, "verify", "streams", "output has no audio or video streams", nil)
	}
	got, err := result.Duration()
	if err != nil {
		return 0, 0, services.Wrap(services.ErrExternalTool, "verify", "duration", "", err)
	}
	if diff := math.Abs(float64(got - want)); diff > float64(slack) {
		return got, 0, services.Wrap(services.ErrExternalTool, "verify", "duration",
			fmt.Sprintf("output plays %s, expected %s", got, want), nil)
	}
	return got, result.SizeBytes(), nil
}
