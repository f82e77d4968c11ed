package config

const (
	defaultConfigPath  = "~/.config/textbundle/config.toml"
	defaultBundleType  = "net.daringfireball.markdown"
	defaultCompression = "store"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	// CreatorIdentifierEnv overrides bundle.creator_identifier when the file leaves it empty.
	CreatorIdentifierEnv = "TEXTBUNDLE_CREATOR_IDENTIFIER"
)

// Default returns a Config populated with repository defaults. An empty
// scratch directory resolves to the system temp dir during normalization.
func Default() Config {
	return Config{
		Bundle: Bundle{
			Type: defaultBundleType,
		},
		Pack: Pack{
			Compression: defaultCompression,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
