package services

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty is allowed", "", "", false},
		{"canonical form", "2026-03-15", "2026-03-15", false},
		{"rfc3339 timestamp", "2026-03-15T10:30:00Z", "2026-03-15", false},
		{"timestamp without zone", "2026-03-15T10:30:00", "2026-03-15", false},
		{"slash form", "2026/03/15", "2026-03-15", false},
		{"us form", "03/15/2026", "2026-03-15", false},
		{"garbage rejected", "not-a-date", "", true},
		{"partial rejected", "2026-03", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeDate(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("NormalizeDate(%q) expected error, got %q", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeDate(%q) unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestDateNotAfter(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"2026-01-01", "2026-01-02", true},
		{"2026-01-02", "2026-01-01", false},
		{"2026-01-01", "2026-01-01", true},
		{"", "2026-01-01", true},
		{"2026-01-01", "", true},
	}
	for _, tc := range cases {
		if got := dateNotAfter(tc.a, tc.b); got != tc.want {
			t.Errorf("dateNotAfter(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
