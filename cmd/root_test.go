// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies API URL precedence and command-line config overrides

package cmd

import (
	"testing"

	"github.com/markalston/forum-client/internal/config"
)

func TestGetAPIURL_Default(t *testing.T) {
	t.Setenv("FORUM_API_URL", "")
	apiURL = ""

	url := GetAPIURL(nil)
	if url != "http://localhost:8080" {
		t.Errorf("expected default URL http://localhost:8080, got %s", url)
	}
}

func TestGetAPIURL_FromEnv(t *testing.T) {
	t.Setenv("FORUM_API_URL", "http://backend.example.com")
	apiURL = ""

	url := GetAPIURL(nil)
	if url != "http://backend.example.com" {
		t.Errorf("expected http://backend.example.com, got %s", url)
	}
}

func TestGetAPIURL_ConfigBeatsEnv(t *testing.T) {
	t.Setenv("FORUM_API_URL", "http://env.example.com")
	apiURL = ""
	cfg := config.Default()
	cfg.API.URL = "http://config.example.com"

	if url := GetAPIURL(cfg); url != "http://config.example.com" {
		t.Errorf("expected config URL, got %s", url)
	}
}

func TestGetAPIURL_FlagOverridesEnv(t *testing.T) {
	t.Setenv("FORUM_API_URL", "http://backend.example.com")
	apiURL = "http://flag-override.example.com"
	defer func() { apiURL = "" }()

	cfg := config.Default()
	cfg.API.URL = "http://config.example.com"
	if url := GetAPIURL(cfg); url != "http://flag-override.example.com" {
		t.Errorf("expected flag to override env, got %s", url)
	}
}

func TestLoadConfig_TokenStoreFlag(t *testing.T) {
	t.Setenv("FORUM_CONFIG_DIR", t.TempDir())
	t.Setenv("FORUM_TOKEN_STORE", "")
	t.Setenv("FORUM_API_URL", "")
	tokenStore = "memory"
	defer func() { tokenStore = "" }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Auth.Store != config.StoreMemory {
		t.Errorf("expected memory store, got %s", cfg.Auth.Store)
	}
}

func TestLoadConfig_RejectsUnknownTokenStore(t *testing.T) {
	t.Setenv("FORUM_CONFIG_DIR", t.TempDir())
	t.Setenv("FORUM_TOKEN_STORE", "")
	tokenStore = "etcd"
	defer func() { tokenStore = "" }()

	if _, err := loadConfig(); err == nil {
		t.Error("expected error for unknown token store, got nil")
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}
