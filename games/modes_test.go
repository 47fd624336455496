package games

import (
	"errors"
	"slices"
	"testing"
)

func TestResolveModesEmpty(t *testing.T) {
	_, err := ResolveModes(nil, false, lastSource{})

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestResolveModesUnknown(t *testing.T) {
	_, err := ResolveModes([]GameMode{ModeNormal, "bogus"}, false, lastSource{})

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestResolveModes(t *testing.T) {
	tests := []struct {
		name    string
		enabled []GameMode
		want    Resolution
	}{
		{
			name:    "single normal",
			enabled: []GameMode{ModeTwoWords},
			want:    Resolution{Normal: ModeTwoWords, Active: ModeTwoWords},
		},
		{
			name:    "last of several normals",
			enabled: []GameMode{ModeNormal, ModeJester, ModeDetective},
			want:    Resolution{Normal: ModeDetective, Active: ModeDetective},
		},
		{
			name:    "special alone falls back to normal",
			enabled: []GameMode{ModeBreakingPoint},
			want:    Resolution{Normal: ModeNormal, Special: ModeBreakingPoint, Active: ModeBreakingPoint},
		},
		{
			name:    "special stacked on a normal",
			enabled: []GameMode{ModeNormal, ModeBreakingPoint, ModeJester},
			want:    Resolution{Normal: ModeJester, Special: ModeBreakingPoint, Active: ModeBreakingPoint},
		},
		{
			name:    "duplicates collapse",
			enabled: []GameMode{ModeHealer, ModeHealer},
			want:    Resolution{Normal: ModeHealer, Active: ModeHealer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveModes(tt.enabled, true, lastSource{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestResolveModesInvariants(t *testing.T) {
	enabled := []GameMode{ModeNormal, ModeTwoWords, ModeBreakingPoint}
	seen := map[GameMode]bool{}

	for seed := range uint64(200) {
		r, err := ResolveModes(enabled, true, NewSource(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if r.Special != ModeBreakingPoint || r.Active != r.Special {
			t.Fatalf("seed %d: special mode must govern the round, got %+v", seed, r)
		}
		if !slices.Contains(enabled, r.Normal) || r.Normal.Class() != ClassNormal {
			t.Fatalf("seed %d: normal mode %q not drawn from the enabled normals", seed, r.Normal)
		}
		seen[r.Normal] = true
	}

	if !seen[ModeNormal] || !seen[ModeTwoWords] {
		t.Fatalf("expected both normal modes to be drawn, saw %v", seen)
	}
}

func TestModeTable(t *testing.T) {
	for _, m := range AllModes() {
		if !m.Valid() {
			t.Fatalf("mode %q missing from table", m)
		}
		wantSpecial := m == ModeBreakingPoint
		if (m.Class() == ClassSpecial) != wantSpecial {
			t.Fatalf("mode %q has class %v", m, m.Class())
		}
	}

	if ModeJester.MinPlayers() != 4 || ModeDetective.MinPlayers() != 4 || ModeBreakingPoint.MinPlayers() != 5 {
		t.Fatal("unexpected minimum player counts")
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" RolesSwitched ")
	if err != nil || m != ModeRolesSwitched {
		t.Fatalf("expected rolesSwitched, got %q (%v)", m, err)
	}

	if _, err := ParseMode("chaos"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestResolutionLabels(t *testing.T) {
	r := Resolution{Normal: ModeJester, Special: ModeBreakingPoint, Active: ModeBreakingPoint}

	got := r.Labels()
	want := []string{"Breaking Point", "Jester"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
