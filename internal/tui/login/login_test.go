// ABOUTME: Tests for the login screen
// ABOUTME: Validates phase switching and error display

package login

import (
	"errors"
	"strings"
	"testing"
)

func TestLoginStartsWithCredentials(t *testing.T) {
	l := New("")
	if l.Phase() != PhaseCredentials {
		t.Errorf("expected credentials phase, got %d", l.Phase())
	}
}

func TestLoginShowsNotice(t *testing.T) {
	l := New("Your session expired")
	if !strings.Contains(l.View(), "Your session expired") {
		t.Error("expected notice in view")
	}
}

func TestRequireTwoFactor(t *testing.T) {
	l := New("")
	l.RequireTwoFactor()
	if l.Phase() != PhaseTwoFactor {
		t.Errorf("expected two-factor phase, got %d", l.Phase())
	}

	l.Reset()
	if l.Phase() != PhaseCredentials {
		t.Error("reset should return to credentials")
	}
}

func TestFailShowsErrorAndClearsPassword(t *testing.T) {
	l := New("")
	l.password = "secret"
	l.Fail(errors.New("invalid username or password"))

	if !strings.Contains(l.View(), "invalid username or password") {
		t.Error("expected error in view")
	}
	if l.password != "" {
		t.Error("password should be cleared after a failure")
	}
}

func TestRequiredValidator(t *testing.T) {
	if err := required("username")("  "); err == nil || err.Error() != "username is required" {
		t.Errorf("expected required error, got %v", err)
	}
	if err := required("username")("jane"); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}
