// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file ($XDG_CONFIG_HOME/dailytask/dailytask.toml or ~/.config/dailytask/dailytask.toml)
// 3. Project config file (./dailytask.toml), or the file named by -config
// 4. Environment variables (DAILYTASK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
package config
