package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dalnet/bot74/internal/bot"
)

func TestParseMask(t *testing.T) {
	tests := []struct {
		in   string
		want Mask
	}{
		{"alice", Mask{Nick: "alice"}},
		{"alice!al@example.com", Mask{Nick: "alice", User: "al", Host: "example.com"}},
		{"*!*@staff.example.net", Mask{Nick: "*", User: "*", Host: "staff.example.net"}},
	}

	for _, tt := range tests {
		got, err := ParseMask(tt.in)
		if err != nil {
			t.Fatalf("ParseMask(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMask(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseMask(""); err == nil {
		t.Errorf("ParseMask should reject an empty mask")
	}
}

func TestMaskMatches(t *testing.T) {
	alice := bot.MsgPrefix{Nick: "alice", User: "al", Host: "example.com"}

	tests := []struct {
		mask string
		want bool
	}{
		{"alice", true},
		{"ALICE!al@example.com", true},
		{"*!*@example.com", true},
		{"alice!*@other.example", false},
		{"bob", false},
		{"*!*@*.com", true},
		{"*!*@*.example.net", false},
		{"al?ce!a*@EXAMPLE.*", true},
		{"a*e", true},
		{"a*x", false},
		{"*!*@example.co?", true},
		{"*!*@example.c", false},
	}

	for _, tt := range tests {
		m, err := ParseMask(tt.mask)
		if err != nil {
			t.Fatal(err)
		}
		if got := m.Matches(alice); got != tt.want {
			t.Errorf("%q.Matches(alice) = %v, want %v", tt.mask, got, tt.want)
		}
	}
}

func TestAdminsRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	masks := []Mask{
		{Nick: "alice", User: "al", Host: "example.com"},
		{Host: "staff.example.net"},
	}

	if err := SaveAdmins(tmpDir, masks); err != nil {
		t.Fatalf("SaveAdmins failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(tmpDir, "admins.txt"))
	expected := "alice!al@example.com\n*!*@staff.example.net\n"
	if string(data) != expected {
		t.Errorf("admins file format wrong: got %q", string(data))
	}

	loaded, err := LoadAdmins(tmpDir)
	if err != nil {
		t.Fatalf("LoadAdmins failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 masks, got %d", len(loaded))
	}
	if loaded[0] != masks[0] {
		t.Errorf("Mask 0 mismatch: expected %+v, got %+v", masks[0], loaded[0])
	}
	if loaded[1].Host != "staff.example.net" {
		t.Errorf("Mask 1 host mismatch: got %q", loaded[1].Host)
	}
}

func TestLoadAdminsMissing(t *testing.T) {
	masks, err := LoadAdmins(t.TempDir())
	if err != nil {
		t.Fatalf("LoadAdmins should not fail for missing file: %v", err)
	}
	if len(masks) != 0 {
		t.Errorf("Expected no masks, got %v", masks)
	}
}

func TestAddAdmin(t *testing.T) {
	tmpDir := t.TempDir()
	m := Mask{Nick: "alice"}

	added, err := AddAdmin(tmpDir, m)
	if err != nil || !added {
		t.Fatalf("AddAdmin = %v, %v; want true, nil", added, err)
	}

	added, err = AddAdmin(tmpDir, m)
	if err != nil || added {
		t.Fatalf("second AddAdmin = %v, %v; want false, nil", added, err)
	}
}

func TestAdminsIsAdmin(t *testing.T) {
	tmpDir := t.TempDir()
	admins, err := NewAdmins(tmpDir, []string{"root!*@*"})
	if err != nil {
		t.Fatal(err)
	}

	check := func(p bot.MsgPrefix, want bool) {
		t.Helper()
		got, err := admins.IsAdmin(p)
		if err != nil {
			t.Fatalf("IsAdmin(%v) failed: %v", p, err)
		}
		if got != want {
			t.Errorf("IsAdmin(%v) = %v, want %v", p, got, want)
		}
	}

	check(bot.MsgPrefix{Nick: "root", User: "r", Host: "h"}, true)
	check(bot.MsgPrefix{Nick: "alice", User: "al", Host: "example.com"}, false)
	check(bot.MsgPrefix{}, false)

	// the file is picked up without rebuilding Admins
	if _, err := AddAdmin(tmpDir, Mask{Nick: "alice"}); err != nil {
		t.Fatal(err)
	}
	check(bot.MsgPrefix{Nick: "alice", User: "al", Host: "example.com"}, true)
}

func TestAdminsIsAdminBadFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "admins.txt"), []byte("@\n"), 0644); err != nil {
		t.Fatal(err)
	}

	admins, err := NewAdmins(tmpDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := admins.IsAdmin(bot.MsgPrefix{Nick: "alice"}); err == nil {
		t.Errorf("IsAdmin should fail when the admin list cannot be parsed")
	}
}

func TestMaskMatchesCloak(t *testing.T) {
	m, err := ParseMask("*!*@user/*")
	if err != nil {
		t.Fatal(err)
	}
	if !m.Matches(bot.MsgPrefix{Nick: "alice", User: "al", Host: "user/alice"}) {
		t.Errorf("%v should match a user/ cloak", m)
	}
	if m.Matches(bot.MsgPrefix{Nick: "alice", User: "al", Host: "staff/alice"}) {
		t.Errorf("%v should not match a staff/ cloak", m)
	}

	// regexp metacharacters in a mask are literal
	m, err = ParseMask("*!*@a.b")
	if err != nil {
		t.Fatal(err)
	}
	if m.Matches(bot.MsgPrefix{Nick: "x", User: "y", Host: "axb"}) {
		t.Errorf("%v should not treat '.' as a wildcard", m)
	}
}

func TestParseMaskRejectsWhitespace(t *testing.T) {
	if _, err := ParseMask("alice !*@*"); err == nil {
		t.Errorf("ParseMask should reject a mask containing whitespace")
	}
}
