package config

import (
	"testing"
	"time"
)

func TestGetStringFallback(t *testing.T) {
	if got := GetString("FAIRDESK_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("FAIRDESK_TEST_STR", "value")
	if got := GetString("FAIRDESK_TEST_STR", "fallback"); got != "value" {
		t.Fatalf("expected env value, got %q", got)
	}
}

func TestGetIntInvalidFallsBack(t *testing.T) {
	t.Setenv("FAIRDESK_TEST_INT", "not-a-number")
	if got := GetInt("FAIRDESK_TEST_INT", 42); got != 42 {
		t.Fatalf("expected fallback on invalid int, got %d", got)
	}
	t.Setenv("FAIRDESK_TEST_INT", "7")
	if got := GetInt("FAIRDESK_TEST_INT", 42); got != 7 {
		t.Fatalf("expected parsed int, got %d", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("FAIRDESK_TEST_BOOL", "true")
	if !GetBool("FAIRDESK_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("FAIRDESK_TEST_BOOL", "nope")
	if GetBool("FAIRDESK_TEST_BOOL", false) {
		t.Fatal("expected fallback on invalid bool")
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("FAIRDESK_TEST_DUR", "90s")
	if got := GetDuration("FAIRDESK_TEST_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	if got := GetDuration("FAIRDESK_TEST_DUR_UNSET", 5*time.Second); got != 5*time.Second {
		t.Fatalf("expected fallback, got %v", got)
	}
}
