package authutil_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/lorehub/internal/app/system/authutil"
)

func TestValidateUsername_Valid(t *testing.T) {
	for _, name := range []string{"abc", "game.master", "dm-bob", "player_1", "ABC123"} {
		if err := authutil.ValidateUsername(name); err != nil {
			t.Errorf("ValidateUsername(%q): unexpected error %v", name, err)
		}
	}
}

func TestValidateUsername_TooShort(t *testing.T) {
	if err := authutil.ValidateUsername("ab"); err == nil {
		t.Error("expected error for 2-character username")
	}
}

func TestValidateUsername_TooLong(t *testing.T) {
	if err := authutil.ValidateUsername(strings.Repeat("a", 33)); err == nil {
		t.Error("expected error for 33-character username")
	}
}

func TestValidateUsername_BadChars(t *testing.T) {
	for _, name := range []string{"has space", "semi;colon", "at@sign", "slash/"} {
		if err := authutil.ValidateUsername(name); err == nil {
			t.Errorf("ValidateUsername(%q): expected error", name)
		}
	}
}

func TestValidatePassword_TooShort(t *testing.T) {
	if err := authutil.ValidatePassword("short"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestValidatePassword_TooLong(t *testing.T) {
	if err := authutil.ValidatePassword(strings.Repeat("x", 73)); err == nil {
		t.Error("expected error for 73-byte password")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := authutil.HashPassword("correct horse battery", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !authutil.CheckPassword(hash, "correct horse battery") {
		t.Error("expected matching password to verify")
	}
	if authutil.CheckPassword(hash, "wrong password") {
		t.Error("expected mismatched password to fail")
	}
}

func TestNormalizeUsername(t *testing.T) {
	if got := authutil.NormalizeUsername("  bob  "); got != "bob" {
		t.Errorf("NormalizeUsername: got %q, want %q", got, "bob")
	}
}
