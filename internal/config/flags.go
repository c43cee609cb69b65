package config

import "github.com/spf13/pflag"

// Flags holds the command-line overrides shared by all subcommands.
type Flags struct {
	Config  string
	Debug   bool
	Format  string
	Indent  int
	LogFile string
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVarP(&f.Config, "config", "c", "", "Path to config file")
	fs.BoolVarP(&f.Debug, "debug", "d", false, "Enable debug logging")
	fs.StringVarP(&f.Format, "format", "f", "", "Document format: json or yaml")
	fs.IntVar(&f.Indent, "indent", 0, "Document indent width")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
	if f.Indent > 0 {
		cfg.Output.Indent = f.Indent
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
