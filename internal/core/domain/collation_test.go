package domain

import "testing"

func TestCollation_Equal(t *testing.T) {
	cases := []struct {
		name string
		c    Collation
		a, b string
		want bool
	}{
		{"identical", DefaultCollation, "Broken heater", "Broken heater", true},
		{"case folds at secondary", DefaultCollation, "Noisy Neighbor", "noisy neighbor", true},
		{"accents kept at secondary", DefaultCollation, "café", "cafe", false},
		{"different words", DefaultCollation, "alice", "alicia", false},
		{"accents fold at primary", Collation{Locale: "en", Strength: StrengthPrimary}, "Café", "cafe", true},
		{"case kept at tertiary", Collation{Locale: "en", Strength: StrengthTertiary}, "Alice", "alice", false},
		{"zero value uses default", Collation{}, "ALICE", "alice", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestUserDefaults_Normalize(t *testing.T) {
	d := UserDefaults{Roles: []string{" ", "Employee", "Employee", " Manager "}, Active: true}.Normalize()
	if len(d.Roles) != 2 || d.Roles[0] != "Employee" || d.Roles[1] != "Manager" {
		t.Fatalf("unexpected roles: %v", d.Roles)
	}

	empty := UserDefaults{}.Normalize()
	if len(empty.Roles) != 1 || empty.Roles[0] != RoleCustomer {
		t.Fatalf("expected Customer fallback, got %v", empty.Roles)
	}
}
