package config

const (
	defaultTargetLanguage = "eng"
	defaultFFprobeBinary  = "ffprobe"
	defaultMkvmergeBinary = "mkvmerge"
	defaultReportDir      = "."
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultConfigPath     = "~/.config/audiodefault/config.toml"
	projectConfigName     = "audiodefault.toml"
)

// DefaultVideoExtensions lists the extensions scanned when none are configured.
var DefaultVideoExtensions = []string{".mkv", ".mp4", ".mov", ".avi", ".m4v"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scan: Scan{
			Extensions:     append([]string(nil), DefaultVideoExtensions...),
			TargetLanguage: defaultTargetLanguage,
		},
		Tools: Tools{
			FFprobe:  defaultFFprobeBinary,
			Mkvmerge: defaultMkvmergeBinary,
		},
		Output: Output{
			ReportDir: defaultReportDir,
		},
		Remux: Remux{
			CheckFreeSpace: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
