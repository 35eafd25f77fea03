package config

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		entry     string
		wantKey   string
		wantValue string
	}{
		{"PORT=8080", "PORT", "8080"},
		{"DB_DSN=host=localhost port=5432", "DB_DSN", "host=localhost port=5432"},
		{"EMPTY=", "EMPTY", ""},
		{"NOVALUE", "NOVALUE", ""},
	}
	for _, tc := range cases {
		key, value := split(tc.entry)
		if key != tc.wantKey || value != tc.wantValue {
			t.Errorf("split(%q) = (%q, %q), want (%q, %q)", tc.entry, key, value, tc.wantKey, tc.wantValue)
		}
	}
}

func TestGetString(t *testing.T) {
	c := map[string]string{"PORT": "9090"}
	if got := GetString(c, "PORT", "8080"); got != "9090" {
		t.Errorf("GetString present = %q, want 9090", got)
	}
	if got := GetString(c, "MISSING", "8080"); got != "8080" {
		t.Errorf("GetString missing = %q, want default", got)
	}
	if got := GetString(nil, "PORT", "8080"); got != "8080" {
		t.Errorf("GetString nil map = %q, want default", got)
	}
}

func TestGetInt(t *testing.T) {
	c := map[string]string{"TIMEOUT": "30", "BAD": "soon"}
	if got := GetInt(c, "TIMEOUT", 10); got != 30 {
		t.Errorf("GetInt = %d, want 30", got)
	}
	if got := GetInt(c, "BAD", 10); got != 10 {
		t.Errorf("GetInt unparsable = %d, want default", got)
	}
	if got := GetInt(c, "MISSING", 10); got != 10 {
		t.Errorf("GetInt missing = %d, want default", got)
	}
}

func TestGetStrings(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  []string
	}{
		{"single", "E0001", []string{"E0001"}},
		{"multiple with spaces", " E0001 , E0002 ,E0003", []string{"E0001", "E0002", "E0003"}},
		{"empty entries dropped", "E0001,,E0002,", []string{"E0001", "E0002"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := map[string]string{"CODES": tc.value}
			got := GetStrings(c, "CODES", []string{"fallback"})
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("GetStrings(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}

	fallback := []string{"E0001"}
	if got := GetStrings(map[string]string{}, "CODES", fallback); !reflect.DeepEqual(got, fallback) {
		t.Errorf("missing key should use fallback, got %v", got)
	}
	if got := GetStrings(map[string]string{"CODES": "  ,  "}, "CODES", fallback); !reflect.DeepEqual(got, fallback) {
		t.Errorf("whitespace-only value should use fallback, got %v", got)
	}
}
