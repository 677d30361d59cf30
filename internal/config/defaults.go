package config

const (
	defaultOutputDir      = "~/music/output"
	defaultStagingDir     = "~/.local/share/platter/staging"
	defaultLogDir         = "~/.local/share/platter/logs"
	defaultBaseURL        = "https://musicbrainz.org/ws/2"
	defaultUserAgent      = "platter/1.0 (https://github.com/platter/platter)"
	defaultSearchLimit    = 20
	defaultRequestTimeout = 15
	defaultMaxRetries     = 4
	defaultQuotaFloor     = 2
	defaultDevice         = "/dev/cdrom"
	defaultRipTimeout     = 300
	defaultFlacBinary     = "flac"
	defaultParanoiaBin    = "cdparanoia"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:        defaultBaseURL,
			UserAgent:      defaultUserAgent,
			SearchLimit:    defaultSearchLimit,
			RequestTimeout: defaultRequestTimeout,
			MaxRetries:     defaultMaxRetries,
			QuotaFloor:     defaultQuotaFloor,
		},
		Ripping: Ripping{
			Device:       defaultDevice,
			RipTimeout:   defaultRipTimeout,
			FlacBinary:   defaultFlacBinary,
			ParanoiaBin:  defaultParanoiaBin,
			EjectOnDone:  true,
			WaitForMedia: true,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
