package util

import "testing"

func TestGetEnv(t *testing.T) {
	t.Run("returns the value when set", func(t *testing.T) {
		t.Setenv("GRAPHIVE_TEST_VALUE", "hello")
		if got := GetEnv("GRAPHIVE_TEST_VALUE"); got != "hello" {
			t.Fatalf("unexpected value: %q", got)
		}
	})

	t.Run("returns empty when unset", func(t *testing.T) {
		if got := GetEnv("GRAPHIVE_TEST_UNSET"); got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})
}

func TestGetEnvString(t *testing.T) {
	t.Run("set value wins over the default", func(t *testing.T) {
		t.Setenv("GRAPHIVE_TEST_VALUE", "set")
		if got := GetEnvString("GRAPHIVE_TEST_VALUE", "fallback"); got != "set" {
			t.Fatalf("unexpected value: %q", got)
		}
	})

	t.Run("unset falls back to the default", func(t *testing.T) {
		if got := GetEnvString("GRAPHIVE_TEST_UNSET", "fallback"); got != "fallback" {
			t.Fatalf("unexpected value: %q", got)
		}
	})
}

func TestGetEnvInt(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		set      bool
		expected int
	}{
		{name: "parses a set integer", value: "3", set: true, expected: 3},
		{name: "unset falls back to the default", expected: 1},
		{name: "garbage falls back to the default", value: "many", set: true, expected: 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.set {
				t.Setenv("GRAPHIVE_TEST_INT", c.value)
			}
			if got := GetEnvInt("GRAPHIVE_TEST_INT", 1); got != c.expected {
				t.Fatalf("expected %d, got %d", c.expected, got)
			}
		})
	}
}
