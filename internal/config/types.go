// Package config defines the Config record spec §6 describes and a
// viper-backed loader adapter. The reactor core only ever consumes the
// resulting Config struct (internal/reactor never imports viper), the
// same boundary the teacher draws between its config package's typed
// accessors (config/types.go) and the rest of the codebase.
package config

// Settings mirrors spec §6's settings.{...} record.
type Settings struct {
	Animate           bool    `mapstructure:"animate"`
	AnimationDurationMs int   `mapstructure:"animation_duration_ms"`
	AnimationFPS      int     `mapstructure:"animation_fps"`
	AnimationEasing   string  `mapstructure:"animation_easing"`
	MouseFollowsFocus bool    `mapstructure:"mouse_follows_focus"`
	FocusFollowsMouse bool    `mapstructure:"focus_follows_mouse"`
	Layout            LayoutSettings `mapstructure:"layout"`
	UI                UISettings     `mapstructure:"ui"`
	WindowSnapping    WindowSnappingSettings `mapstructure:"window_snapping"`
}

type GapSettings struct {
	Outer      float64            `mapstructure:"outer"`
	Inner      float64            `mapstructure:"inner"`
	PerDisplay map[string]float64 `mapstructure:"per_display"`
}

type LayoutSettings struct {
	Mode  string      `mapstructure:"mode"` // "traditional" | "bsp" | "dwindle"
	Stack string      `mapstructure:"stack"`
	Gaps  GapSettings `mapstructure:"gaps"`
}

type UISettings struct {
	MenuBar        bool `mapstructure:"menu_bar"`
	StackLine      bool `mapstructure:"stack_line"`
	MissionControl bool `mapstructure:"mission_control"`
}

type WindowSnappingSettings struct {
	DragSwapFraction float64 `mapstructure:"drag_swap_fraction"`
}

// KeyBinding maps one hotkey string (e.g. "cmd+shift+h") to a command
// name and its arguments.
type KeyBinding struct {
	Key     string   `mapstructure:"key"`
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// AppRuleConfig mirrors one virtual_workspaces.app_rules[] entry.
type AppRuleConfig struct {
	BundleGlob       string `mapstructure:"bundle"`
	AppNameSubstring string `mapstructure:"app_name"`
	TitlePattern     string `mapstructure:"title"`
	TitleIsRegex     bool   `mapstructure:"title_is_regex"`
	Role             string `mapstructure:"role"`
	Subrole          string `mapstructure:"subrole"`
	WorkspaceIndex   *int   `mapstructure:"workspace_index"`
	WorkspaceName    string `mapstructure:"workspace_name"`
	Floating         bool   `mapstructure:"floating"`
	Manage           bool   `mapstructure:"manage"`
}

type VirtualWorkspacesConfig struct {
	Enabled              bool            `mapstructure:"enabled"`
	DefaultWorkspaceCount int            `mapstructure:"default_workspace_count"`
	WorkspaceNames       []string        `mapstructure:"workspace_names"`
	AppRules             []AppRuleConfig `mapstructure:"app_rules"`
}

// StartupCommandConfig is one entry of startup_commands[]: a program the
// daemon spawns under a pty once it's up (spec §1's "startup-command
// launcher" external collaborator), the configuration-layer counterpart
// to internal/launcher.Command.
type StartupCommandConfig struct {
	Path string   `mapstructure:"path"`
	Args []string `mapstructure:"args"`
	Dir  string   `mapstructure:"dir"`
}

// Config is the whole record spec §6 names: settings, a keys table, and
// virtual_workspaces, plus the startup command list cmd/riftd launches
// at boot.
type Config struct {
	Settings          Settings                `mapstructure:"settings"`
	Keys              []KeyBinding            `mapstructure:"keys"`
	VirtualWorkspaces VirtualWorkspacesConfig `mapstructure:"virtual_workspaces"`
	StartupCommands   []StartupCommandConfig  `mapstructure:"startup_commands"`
}
