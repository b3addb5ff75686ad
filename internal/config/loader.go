package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Defaults returns the Config the reactor should start from before a
// user config file is layered on top, grounded on the teacher's own
// applySystemDefaults (config/defaults.go) in spirit: non-destructive
// baseline values for every setting a fresh install needs.
func Defaults() Config {
	return Config{
		Settings: Settings{
			Animate:             true,
			AnimationDurationMs: 200,
			AnimationFPS:        60,
			AnimationEasing:     "ease-in-out",
			Layout: LayoutSettings{
				Mode: "bsp",
			},
			UI: UISettings{
				MenuBar:   true,
				StackLine: true,
			},
			WindowSnapping: WindowSnappingSettings{
				DragSwapFraction: 0.5,
			},
		},
		VirtualWorkspaces: VirtualWorkspacesConfig{
			Enabled:               true,
			DefaultWorkspaceCount: 4,
		},
	}
}

// Loader reads Config from disk via viper (YAML, with environment
// variable overrides) and can watch the file for changes. This is the
// one place in the tree that imports viper/fsnotify — the reactor core
// consumes only the resulting Config value passed to it by cmd/riftd.
type Loader struct {
	v *viper.Viper
}

func NewLoader(configPath string) *Loader {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RIFTWM")
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load reads and unmarshals the config file on top of Defaults().
func (l *Loader) Load() (Config, error) {
	cfg := Defaults()
	if err := l.v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", l.v.ConfigFileUsed(), err)
	}
	if err := l.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// Watch invokes onChange with the freshly reloaded Config every time the
// underlying file changes on disk, via viper's fsnotify-backed watcher.
func (l *Loader) Watch(onChange func(Config, error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg := Defaults()
		if err := l.v.Unmarshal(&cfg); err != nil {
			onChange(Config{}, fmt.Errorf("config: reload %s: %w", e.Name, err))
			return
		}
		onChange(cfg, nil)
	})
	l.v.WatchConfig()
}
