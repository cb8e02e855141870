package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 || cfg.Mode != "release" || cfg.Backpressure != "drop" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.PingPeriod != 54*time.Second || cfg.PongWait != 60*time.Second {
		t.Fatalf("keepalive = %s/%s", cfg.PingPeriod, cfg.PongWait)
	}
	if len(cfg.ICEServers) != 1 || cfg.ICEServers[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Fatalf("ice servers = %+v", cfg.ICEServers)
	}
	if cfg.Log.Format != "console" || cfg.Log.Level != "info" {
		t.Fatalf("log = %+v", cfg.Log)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	yaml := `mode: debug
port: 9000
backpressure: kick
ice_servers:
  - urls: ["turn:turn.example.com:3478"]
    username: u
    credential: p
log:
  format: json
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOICE_PORT", "9100")
	t.Setenv("VOICE_LOG_LEVEL", "debug")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "debug" || cfg.Backpressure != "kick" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Port != 9100 {
		t.Fatalf("port = %d, want env override 9100", cfg.Port)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log = %+v", cfg.Log)
	}
	if s := cfg.ICEServers; len(s) != 1 || s[0].Username != "u" || s[0].Credential != "p" {
		t.Fatalf("ice servers = %+v", s)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	bad := *cfg
	bad.Backpressure = "explode"
	bad.PingPeriod = 2 * bad.PongWait
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Validate = %v", err)
	}
}
