package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultDataDir  = "."
	DefaultKey      = "todos"
	DefaultLocale   = "ko"
	DefaultTheme    = "classic"
	DefaultStorage  = StorageFile
	DefaultLogLevel = "warn"
	DefaultTimeout  = 5 * time.Second

	StorageFile     = "file"
	StoragePostgres = "postgres"

	fileName = "dailytask.toml"
)

// Config is the resolved runtime configuration.
type Config struct {
	DataDir        string        `toml:"data_dir"`
	Key            string        `toml:"key"`
	Locale         string        `toml:"locale"`
	Theme          string        `toml:"theme"`
	Storage        string        `toml:"storage"`
	DSN            string        `toml:"dsn"`
	StorageTimeout time.Duration `toml:"-"`
	LogLevel       string        `toml:"log_level"`
	LogFile        string        `toml:"log_file"`
	Group          bool          `toml:"group"`

	// TimeoutSeconds is the file form of StorageTimeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Key = DefaultKey
	cfg.Locale = DefaultLocale
	cfg.Theme = DefaultTheme
	cfg.Storage = DefaultStorage
	cfg.LogLevel = DefaultLogLevel
	cfg.TimeoutSeconds = int(DefaultTimeout / time.Second)
}

// Load resolves configuration from defaults, files, environment and the
// flags in args. It returns the positional arguments left after flags.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := &Config{}
	setDefaults(cfg)

	var fl flagValues
	registerFlags(fs, &fl)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}

	projectFile := fl.configFile
	if projectFile == "" {
		projectFile = findProjectConfigFile()
	}
	if projectFile != "" {
		if err := loadConfigFile(cfg, projectFile); err != nil {
			return nil, nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
	}

	loadFromEnv(cfg)
	fl.apply(cfg, fs)

	if err := finalizeConfig(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

func loadConfigFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func findUserConfigFile() string {
	var dirs []string
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		dirs = append(dirs, filepath.Join(x, "dailytask"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "dailytask"))
	}
	for _, d := range dirs {
		p := filepath.Join(d, fileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func findProjectConfigFile() string {
	if _, err := os.Stat(fileName); err == nil {
		return fileName
	}
	return ""
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("DAILYTASK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DAILYTASK_KEY"); v != "" {
		cfg.Key = v
	}
	if v := os.Getenv("DAILYTASK_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("DAILYTASK_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("DAILYTASK_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("DAILYTASK_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("DAILYTASK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DAILYTASK_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func finalizeConfig(cfg *Config) error {
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = int(DefaultTimeout / time.Second)
	}
	cfg.StorageTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	return cfg.Validate()
}

var ErrInvalid = errors.New("invalid config")

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile:
	case StoragePostgres:
		if strings.TrimSpace(c.DSN) == "" {
			return fmt.Errorf("%w: storage %q needs a dsn", ErrInvalid, c.Storage)
		}
	default:
		return fmt.Errorf("%w: unknown storage %q (want %s or %s)", ErrInvalid, c.Storage, StorageFile, StoragePostgres)
	}
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalid)
	}
	switch c.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, c.Theme)
	}
	return nil
}
