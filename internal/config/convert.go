package config

import (
	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/layout"
	"github.com/riftwm/riftwm/internal/workspace"
)

// LayoutStrategy translates the configured layout mode string into an
// engine.Strategy, defaulting to BSP for an empty or unrecognised value
// the same way the loader's Defaults() do.
func (c Config) LayoutStrategy() engine.Strategy {
	switch c.Settings.Layout.Mode {
	case "traditional":
		return engine.StrategyTraditional
	case "dwindle":
		return engine.StrategyDwindle
	default:
		return engine.StrategyBSP
	}
}

// LayoutGaps translates layout.gaps into the layout package's flat
// per-edge record. Only the per_display entry named "default" is
// consulted: when present it replaces the outer gap on all four edges;
// other per_display entries are ignored.
func (c Config) LayoutGaps() layout.GapSettings {
	g := c.Settings.Layout.Gaps
	if override, ok := g.PerDisplay["default"]; ok {
		return layout.GapSettings{
			OuterTop: override, OuterBottom: override, OuterLeft: override, OuterRight: override,
			InnerHorizontal: g.Inner, InnerVertical: g.Inner,
		}
	}
	return layout.GapSettings{
		OuterTop: g.Outer, OuterBottom: g.Outer, OuterLeft: g.Outer, OuterRight: g.Outer,
		InnerHorizontal: g.Inner, InnerVertical: g.Inner,
	}
}

// StackPlacement translates layout.stack into the horizontal/vertical
// placement calculate_layout needs for a stacked container's indicator;
// "left"/"top" select the low-coordinate side, anything else (including
// the empty default) selects right/bottom.
func (c Config) StackPlacement() (layout.HorizontalPlacement, layout.VerticalPlacement) {
	horiz := layout.HPlacementRight
	if c.Settings.Layout.Stack == "left" {
		horiz = layout.HPlacementLeft
	}
	vert := layout.VPlacementBottom
	if c.Settings.Layout.Stack == "top" {
		vert = layout.VPlacementTop
	}
	return horiz, vert
}

// AppRules translates the configured app-rule list into
// workspace.AppRule values, preserving declaration order (the tie-break
// VirtualWorkspaceManager relies on).
func (c Config) AppRules() []workspace.AppRule {
	rules := make([]workspace.AppRule, 0, len(c.VirtualWorkspaces.AppRules))
	for _, r := range c.VirtualWorkspaces.AppRules {
		rules = append(rules, workspace.AppRule{
			BundleGlob:       r.BundleGlob,
			AppNameSubstring: r.AppNameSubstring,
			TitlePattern:     r.TitlePattern,
			TitleIsRegex:     r.TitleIsRegex,
			Role:             r.Role,
			Subrole:          r.Subrole,
			Workspace: workspace.WorkspaceSelector{
				Index: r.WorkspaceIndex,
				Name:  r.WorkspaceName,
			},
			Floating: r.Floating,
			Manage:   r.Manage,
		})
	}
	return rules
}
