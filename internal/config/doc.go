// Package config provides the configuration system for Nimble.
//
// Configuration is built in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/nimble/config.toml (or .yaml)
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Languages in the file are merged with the built-in ones by id, so a file
// that only changes the rust server keeps the cpp defaults.
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lang, ok := cfg.LanguageForPath("main.cpp")
//
// # Live Reload
//
// Watcher reloads the file after it changes and hands the new configuration
// to a callback:
//
//	w, err := config.NewWatcher(path, func(cfg *config.Config, err error) {
//	    // apply tab width, bracket pairs and scroll settings
//	})
//	defer w.Close()
//
// # Environment Variables
//
//	NIMBLE_TAB_WIDTH       editor.tab_width
//	NIMBLE_LINES_PER_ROLL  scroll.lines_per_roll
//	NIMBLE_LOG_LEVEL       logging.level
//	NIMBLE_LOG_FILE        logging.file
package config
