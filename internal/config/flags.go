package config

import "flag"

type flagValues struct {
	configFile string
	dataDir    string
	key        string
	locale     string
	theme      string
	storage    string
	dsn        string
	logLevel   string
	logFile    string
	group      bool
}

func registerFlags(fs *flag.FlagSet, fl *flagValues) {
	fs.StringVar(&fl.configFile, "config", "", "path to a dailytask.toml file")
	fs.StringVar(&fl.dataDir, "data-dir", "", "directory holding the task file")
	fs.StringVar(&fl.key, "key", "", "slot key the list is stored under")
	fs.StringVar(&fl.locale, "locale", "", "timestamp locale (ko, en)")
	fs.StringVar(&fl.theme, "theme", "", "output theme (classic, neon, mono)")
	fs.StringVar(&fl.storage, "storage", "", "storage backend (file, postgres)")
	fs.StringVar(&fl.dsn, "dsn", "", "postgres connection string")
	fs.StringVar(&fl.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&fl.logFile, "log-file", "", "write logs to this file")
	fs.BoolVar(&fl.group, "group", false, "group ls output by pending/done")
}

// apply copies explicitly set flags onto cfg.
func (fl *flagValues) apply(cfg *Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = fl.dataDir
		case "key":
			cfg.Key = fl.key
		case "locale":
			cfg.Locale = fl.locale
		case "theme":
			cfg.Theme = fl.theme
		case "storage":
			cfg.Storage = fl.storage
		case "dsn":
			cfg.DSN = fl.dsn
		case "log-level":
			cfg.LogLevel = fl.logLevel
		case "log-file":
			cfg.LogFile = fl.logFile
		case "group":
			cfg.Group = fl.group
		}
	})
}
