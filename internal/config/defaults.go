package config

const (
	defaultConfigPath             = "~/.config/renamer/config.toml"
	defaultWorkDir                = "~/.local/share/renamer/work"
	defaultOutputDir              = "~/.local/share/renamer/output"
	defaultStateDir               = "~/.local/share/renamer/state"
	defaultLogDir                 = "~/.local/share/renamer/logs"
	defaultTemplate               = ""
	defaultDuplicateWindowSeconds = 10
	defaultPacingMillis           = 500
	defaultRateLimitGraceSeconds  = 1
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogMaxSizeMB           = 20
	defaultLogMaxBackups          = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Tools: Tools{
			FFprobe: "ffprobe",
			FFmpeg:  "ffmpeg",
		},
		Rename: Rename{
			DefaultTemplate:        defaultTemplate,
			DuplicateWindowSeconds: defaultDuplicateWindowSeconds,
			ProbeMissingQuality:    true,
			Tagging:                true,
		},
		Sequence: Sequence{
			PacingMillis:          defaultPacingMillis,
			RateLimitGraceSeconds: defaultRateLimitGraceSeconds,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
