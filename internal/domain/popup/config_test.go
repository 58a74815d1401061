package popup

import "testing"

func intPtr(v int) *int { return &v }

func TestNormalizeClampsTriggerValues(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantScroll *int
		wantTime   *int
		wantViews  *int
	}{
		{
			name: "scroll depth above range",
			cfg: Config{
				Status:   StatusEnabled,
				Triggers: Triggers{Conditions: TriggerConditions{ScrollDepth: intPtr(150)}},
			},
			wantScroll: intPtr(100),
		},
		{
			name: "scroll depth below range",
			cfg: Config{
				Status:   StatusEnabled,
				Triggers: Triggers{Conditions: TriggerConditions{ScrollDepth: intPtr(-10)}},
			},
			wantScroll: intPtr(0),
		},
		{
			name: "negative time on page",
			cfg: Config{
				Status:   StatusEnabled,
				Triggers: Triggers{Conditions: TriggerConditions{TimeOnPageSec: intPtr(-5)}},
			},
			wantTime: intPtr(0),
		},
		{
			name: "zero page views",
			cfg: Config{
				Status:   StatusEnabled,
				Triggers: Triggers{Conditions: TriggerConditions{PageViews: intPtr(0)}},
			},
			wantViews: intPtr(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Normalize()
			conds := tt.cfg.Triggers.Conditions
			if tt.wantScroll != nil && *conds.ScrollDepth != *tt.wantScroll {
				t.Errorf("ScrollDepth = %d, want %d", *conds.ScrollDepth, *tt.wantScroll)
			}
			if tt.wantTime != nil && *conds.TimeOnPageSec != *tt.wantTime {
				t.Errorf("TimeOnPageSec = %d, want %d", *conds.TimeOnPageSec, *tt.wantTime)
			}
			if tt.wantViews != nil && *conds.PageViews != *tt.wantViews {
				t.Errorf("PageViews = %d, want %d", *conds.PageViews, *tt.wantViews)
			}
		})
	}
}

func TestNormalizeDefaultsInvalidEnums(t *testing.T) {
	cfg := Config{
		Status: StatusEnabled,
		Display: Display{
			Type:     DisplayType("banner"),
			Position: Position("top-middle"),
		},
		Targeting: Targeting{
			DeviceType:     DeviceTarget("tablet"),
			UserLoginState: LoginTarget("maybe"),
		},
		Triggers:  Triggers{Combinator: Combinator("xor")},
		Frequency: Frequency{Rule: FrequencyRule("sometimes"), N: 5},
	}
	cfg.Normalize()

	if cfg.Display.Type != DisplaySlideIn {
		t.Errorf("Display.Type = %q, want slide-in", cfg.Display.Type)
	}
	if cfg.Display.Position != PositionBottomRight {
		t.Errorf("Display.Position = %q, want bottom-right", cfg.Display.Position)
	}
	if cfg.Targeting.DeviceType != DeviceAll {
		t.Errorf("DeviceType = %q, want all", cfg.Targeting.DeviceType)
	}
	if cfg.Targeting.UserLoginState != LoginAll {
		t.Errorf("UserLoginState = %q, want all", cfg.Targeting.UserLoginState)
	}
	if cfg.Triggers.Combinator != CombinatorAny {
		t.Errorf("Combinator = %q, want any", cfg.Triggers.Combinator)
	}
	if cfg.Frequency.Rule != FreqEveryTime {
		t.Errorf("Frequency.Rule = %q, want every_time", cfg.Frequency.Rule)
	}
	if cfg.Frequency.N != 0 {
		t.Errorf("Frequency.N = %d, want 0", cfg.Frequency.N)
	}
}

func TestNormalizeFrequencyParameter(t *testing.T) {
	cfg := Config{Status: StatusEnabled, Frequency: Frequency{Rule: FreqEveryNDays, N: 0}}
	cfg.Normalize()
	if cfg.Frequency.N != 1 {
		t.Errorf("every_n_days with n=0: N = %d, want 1", cfg.Frequency.N)
	}

	cfg = Config{Status: StatusEnabled, Frequency: Frequency{Rule: FreqMaxImpressions, N: -3}}
	cfg.Normalize()
	if cfg.Frequency.N != 1 {
		t.Errorf("max_impressions with n=-3: N = %d, want 1", cfg.Frequency.N)
	}
}

func TestNormalizeDropsUnnamedCookieTarget(t *testing.T) {
	cfg := Config{
		Status:    StatusEnabled,
		Targeting: Targeting{Cookie: &CookieTarget{Name: "", Value: "x"}},
	}
	cfg.Normalize()
	if cfg.Targeting.Cookie != nil {
		t.Error("cookie target without a name should be dropped")
	}
}
