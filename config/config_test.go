package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	src := `
data_dir: /tmp/pg
storage: memory
timeout: 2s
viewport:
  width: 800
  height: 600
`
	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.DataDir != "/tmp/pg" || c.Storage != StorageMemory {
		t.Errorf("config = %+v", c)
	}
	if c.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v", c.Timeout)
	}
	if c.LogDir != filepath.Join("/tmp/pg", "logs") {
		t.Errorf("LogDir = %q", c.LogDir)
	}
	if c.Viewport != (Size{Width: 800, Height: 600}) {
		t.Errorf("Viewport = %+v", c.Viewport)
	}
	if c.Fixture != (Size{Width: 360, Height: 420}) {
		t.Errorf("Fixture = %+v", c.Fixture)
	}
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c != Default() {
		t.Errorf("empty file should give defaults, got %+v", c)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown storage", src: "storage: redis"},
		{name: "negative timeout", src: "timeout: -1s"},
		{name: "negative viewport", src: "viewport: {width: -1, height: 10}"},
		{name: "unknown field", src: "colour: blue"},
		{name: "malformed", src: "storage: [memory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("err = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("Load missing: %v", err)
	}
	if c != Default() {
		t.Errorf("missing file should give defaults")
	}

	path := filepath.Join(dir, "playground.yaml")
	if err := os.WriteFile(path, []byte("storage: memory\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Storage != StorageMemory {
		t.Errorf("Storage = %q", c.Storage)
	}
}

func TestDatabasePath(t *testing.T) {
	c := Config{DataDir: "data"}
	if got := c.DatabasePath(); got != filepath.Join("data", "storage.db") {
		t.Errorf("DatabasePath = %q", got)
	}
}
