package config

import "testing"

func TestDefaultsProduceAValidStartingConfig(t *testing.T) {
	cfg := Defaults()
	if !cfg.Settings.Animate {
		t.Fatal("expected animation enabled by default")
	}
	if cfg.VirtualWorkspaces.DefaultWorkspaceCount < 1 {
		t.Fatal("expected at least one default workspace")
	}
	if cfg.Settings.WindowSnapping.DragSwapFraction <= 0 || cfg.Settings.WindowSnapping.DragSwapFraction > 1 {
		t.Fatalf("expected drag swap fraction in (0,1], got %v", cfg.Settings.WindowSnapping.DragSwapFraction)
	}
}

func TestAppRulesPreservesDeclarationOrderAndFields(t *testing.T) {
	idx := 2
	cfg := Config{
		VirtualWorkspaces: VirtualWorkspacesConfig{
			AppRules: []AppRuleConfig{
				{BundleGlob: "com.example.*", WorkspaceIndex: &idx, Manage: true},
				{AppNameSubstring: "ignoreme", Manage: false},
			},
		},
	}

	rules := cfg.AppRules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].BundleGlob != "com.example.*" || rules[0].Workspace.Index == nil || *rules[0].Workspace.Index != idx {
		t.Fatalf("unexpected first rule: %+v", rules[0])
	}
	if rules[1].AppNameSubstring != "ignoreme" || rules[1].Manage {
		t.Fatalf("unexpected second rule: %+v", rules[1])
	}
}
