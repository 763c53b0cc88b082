package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_WritesToFile(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})

	path := filepath.Join(t.TempDir(), "nested", "willdo.log")
	closeFn, err := Setup(path)
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}

	log.Printf("hello from test")
	if err := closeFn(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Fatalf("log file contents = %q, want the logged line", string(data))
	}
}

func TestSetup_EmptyPathUsesDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})

	closeFn, err := Setup("")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	defer func() { _ = closeFn() }()

	log.Printf("default path line")
	_ = closeFn()

	want := filepath.Join(home, ".local", "state", "willdo", "willdo.log")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected log file at %s: %v", want, err)
	}
}
