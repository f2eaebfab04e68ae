package config

const (
	defaultSourceDir      = "./source"
	defaultFillerDir      = "./gap"
	defaultWorkDir        = "./tmp"
	defaultOutputDir      = "./output"
	defaultOutputName     = "output.mp4"
	defaultLogDir         = "~/.local/share/gapsplice/logs"
	defaultHistoryFile    = "history.db"
	defaultTimeUnit       = UnitSeconds
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultTrimWorkers    = 1
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultRetentionDays  = 30
	defaultDurationSlack  = 0.5
	maxTrimWorkers        = 16
	defaultHistoryEnabled = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir:  defaultSourceDir,
			FillerDir:  defaultFillerDir,
			WorkDir:    defaultWorkDir,
			OutputDir:  defaultOutputDir,
			OutputName: defaultOutputName,
			LogDir:     defaultLogDir,
		},
		Timeline: Timeline{
			Unit:            defaultTimeUnit,
			RequireCoverage: true,
		},
		Media: Media{
			FFmpegBinary:         defaultFFmpegBinary,
			FFprobeBinary:        defaultFFprobeBinary,
			TrimWorkers:          defaultTrimWorkers,
			VerifyOutput:         true,
			DurationSlackSeconds: defaultDurationSlack,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
	}
}
