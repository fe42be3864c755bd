package app

// Config is the CLI-level configuration for one eventflow process: the
// path to its configuration document, the only input the CLI takes.
type Config struct {
	// Path is the configuration document passed as the CLI's single
	// positional argument.
	Path string
}

// NewConfig returns a Config for the configuration document at path.
func NewConfig(path string) *Config {
	return &Config{Path: path}
}
