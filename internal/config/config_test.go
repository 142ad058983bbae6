package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")

	if got := getConfigValue("from-flag", "TEST_CONFIG_KEY", "default"); got != "from-flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := getConfigValue("", "TEST_CONFIG_KEY", "default"); got != "from-env" {
		t.Errorf("env should win over default, got %q", got)
	}
	if got := getConfigValue("", "TEST_CONFIG_MISSING", "default"); got != "default" {
		t.Errorf("default should be used, got %q", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := "# comment\n\nTEST_ENVFILE_A=hello\nTEST_ENVFILE_B=\"quoted\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("TEST_ENVFILE_A", "")
	t.Setenv("TEST_ENVFILE_B", "")
	os.Unsetenv("TEST_ENVFILE_A")
	os.Unsetenv("TEST_ENVFILE_B")

	if err := loadEnvFile(envPath); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}

	if got := os.Getenv("TEST_ENVFILE_A"); got != "hello" {
		t.Errorf("TEST_ENVFILE_A = %q, want %q", got, "hello")
	}
	if got := os.Getenv("TEST_ENVFILE_B"); got != "quoted" {
		t.Errorf("TEST_ENVFILE_B = %q, want %q (quotes stripped)", got, "quoted")
	}
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	if err := os.WriteFile(envPath, []byte("TEST_ENVFILE_C=file-value\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("TEST_ENVFILE_C", "real-env")

	if err := loadEnvFile(envPath); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}

	if got := os.Getenv("TEST_ENVFILE_C"); got != "real-env" {
		t.Errorf("existing env var should win, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Database: DatabaseConfig{Path: "/tmp/test.db"},
		Invites:  InviteConfig{Expiry: 7 * 24 * time.Hour},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config should pass: %v", err)
	}

	badEnv := *valid
	badEnv.App.Environment = "sandbox"
	if err := badEnv.Validate(); err == nil {
		t.Error("invalid environment should fail validation")
	}

	badLevel := *valid
	badLevel.Logger.Level = "verbose"
	if err := badLevel.Validate(); err == nil {
		t.Error("invalid log level should fail validation")
	}

	badExpiry := *valid
	badExpiry.Invites.Expiry = 0
	if err := badExpiry.Validate(); err == nil {
		t.Error("zero invite expiry should fail validation")
	}
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != "/default/path" {
		t.Errorf("empty path should use default, got %q", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err = expandPath("~/recipes.db", "")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "recipes.db") {
		t.Errorf("tilde expansion failed, got %q", got)
	}
}
