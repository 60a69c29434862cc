package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeName_ControlChars(t *testing.T) {
	got := SanitizeName(" A\nB\rC\tD\x00 ", 100)
	if strings.ContainsAny(got, "\n\r\t\x00") {
		t.Fatalf("sanitize output contains control chars: %q", got)
	}
	if got != "ABCD" {
		t.Fatalf("SanitizeName control char behavior mismatch, got %q", got)
	}
}

func TestSanitizeName_MaxLength(t *testing.T) {
	got := SanitizeName("abcdefghijklmnopqrstuvwxyz", 10)
	if len([]rune(got)) != 10 {
		t.Fatalf("expected length 10, got %d (%q)", len([]rune(got)), got)
	}
}

func TestSanitizeName_AllowedChars(t *testing.T) {
	input := "Az09 -_.,()"
	got := SanitizeName(input, 100)
	if got != input {
		t.Fatalf("SanitizeName changed allowed chars: got %q want %q", got, input)
	}
}

func TestSanitizeName_ReplacesDisallowed(t *testing.T) {
	got := SanitizeName("bad<>|\"name", 100)
	if got != "bad____name" {
		t.Fatalf("SanitizeName disallowed replacement mismatch: got %q", got)
	}
}

func TestEnsureOutputDir_Existing(t *testing.T) {
	dir := t.TempDir()
	if err := EnsureOutputDir(dir); err != nil {
		t.Fatalf("EnsureOutputDir(%q) error = %v, want nil", dir, err)
	}
}

func TestEnsureOutputDir_CreatesMissing(t *testing.T) {
	base := t.TempDir()
	missing := filepath.Join(base, "edl", "out")
	if err := EnsureOutputDir(missing); err != nil {
		t.Fatalf("EnsureOutputDir(%q) error = %v, want created", missing, err)
	}
	info, err := os.Stat(missing)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected %q to be created as a directory", missing)
	}
}

func TestEnsureOutputDir_PathTraversal(t *testing.T) {
	path := "/tmp/../etc"
	if err := EnsureOutputDir(path); err == nil {
		t.Fatalf("EnsureOutputDir(%q) expected traversal error", path)
	}
}

func TestEnsureOutputDir_NotADir(t *testing.T) {
	tmp := t.TempDir()
	filePath := filepath.Join(tmp, "file.txt")
	if err := os.WriteFile(filePath, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if err := EnsureOutputDir(filePath); err == nil {
		t.Fatalf("EnsureOutputDir(%q) expected non-directory error", filePath)
	}
}
