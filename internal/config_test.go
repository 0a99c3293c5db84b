package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/Lobco894/NotePad-new-master/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenMode(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}

	cfg.Token = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("token mode without token: err = %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestStoreConfig(t *testing.T) {
	cfg := StoreConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty authority should default: %v", err)
	}
	if cfg.Authority != "com.google.provider.NotePad" {
		t.Errorf("authority = %q", cfg.Authority)
	}
	cfg.Authority = "not a host/"
	if err := cfg.Validate(); err == nil {
		t.Error("invalid authority should fail validation")
	}
}

func TestCategoriesConfig(t *testing.T) {
	cfg := CategoriesConfig{}
	if err := cfg.Validate(); err != nil || cfg.DefaultColor != "#FFFFFF" {
		t.Fatalf("default color = %q, err = %v", cfg.DefaultColor, err)
	}
	cfg.DefaultColor = "blue"
	if err := cfg.Validate(); err == nil {
		t.Error("non-hex color should fail validation")
	}
}

func TestSessionsConfig(t *testing.T) {
	cfg := NewDefaultConfig().Sessions
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default sessions config: %v", err)
	}
	cfg.IdleTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero idle timeout should fail validation")
	}
}

func TestFullConfig_DefaultsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.Auth.Mode = "token"
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	t.Setenv("NOTEPAD_TEST_TOKEN", "s3cret")
	yaml := `
app:
  log_level: debug
  http:
    port: 9090
sqlite:
  path: /tmp/notes.db
store:
  authority: example.notes
categories:
  default_color: "#ABCDEF"
sessions:
  idle_timeout: 5m
auth:
  mode: token
  token: ${NOTEPAD_TEST_TOKEN}
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	found, err := pkgconfig.LoadOrDefault(path, cfg)
	if err != nil || !found {
		t.Fatalf("LoadOrDefault = %v, %v", found, err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.Store.Authority != "example.notes" || cfg.Auth.Token != "s3cret" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Sessions.IdleTimeout != 5*time.Minute || cfg.Sessions.SweepInterval != time.Minute {
		t.Errorf("sessions = %+v", cfg.Sessions)
	}
	if cfg.Documents.Path != "./documents" {
		t.Errorf("unset section should keep default, got %q", cfg.Documents.Path)
	}

	cfg = NewDefaultConfig()
	found, err = pkgconfig.LoadOrDefault(filepath.Join(dir, "missing.yaml"), cfg)
	if err != nil || found {
		t.Fatalf("missing file: found = %v, err = %v", found, err)
	}
	if cfg.SQLite.Path != "./notepad.db" {
		t.Errorf("defaults lost: %+v", cfg.SQLite)
	}
}
