package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultDuration != 75 {
		t.Errorf("DefaultDuration = %d, want 75", cfg.DefaultDuration)
	}
	if cfg.DefaultWeeklyTarget != 3 {
		t.Errorf("DefaultWeeklyTarget = %d, want 3", cfg.DefaultWeeklyTarget)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("Timezone = %q, want Local", cfg.Timezone)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "timezone: UTC\ndefault_duration: 30\ndefault_weekly_target: 4\noffline: true\nlocal_dir: " + dir + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timezone != "UTC" || cfg.DefaultDuration != 30 || cfg.DefaultWeeklyTarget != 4 || !cfg.Offline {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.LocalDir != dir {
		t.Errorf("LocalDir = %q, want %q", cfg.LocalDir, dir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad timezone", content: "timezone: Mars/Olympus\n", wantErr: "invalid timezone"},
		{name: "negative duration", content: "default_duration: -5\n", wantErr: "default_duration"},
		{name: "target too high", content: "default_weekly_target: 8\n", wantErr: "default_weekly_target"},
		{name: "malformed yaml", content: "timezone: [unclosed\n", wantErr: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Default()
	want.DefaultDuration = 90
	want.LocalDir = filepath.Dir(path)

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	if got := ExpandHome("~/x/y"); got != filepath.Join(home, "x/y") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome() changed absolute path: %q", got)
	}
}
