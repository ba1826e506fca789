package strata

import (
	"path/filepath"
	"testing"
)

func TestEnvConfiguration(t *testing.T) {
	t.Setenv("STRATA_ENV_PROBE", "present")

	config := NewEnvConfiguration(false)
	if value := config.GetString("strata_env_probe"); value != "present" {
		t.Errorf("Expected 'present', got '%s'", value)
	}
}

func TestEnvConfigurationMapped(t *testing.T) {
	t.Setenv("STRATA_SERVER_PORT", "9090")

	config := NewEnvConfiguration(true)
	if value := config.GetInt("strata.server.port"); value != 9090 {
		t.Errorf("Expected 9090, got %d", value)
	}

	subset := config.Subset("strata.server")
	if value := subset.GetInt("port"); value != 9090 {
		t.Errorf("Expected 9090 through the subset, got %d", value)
	}
}

func TestEnvConfigurationKeepsCommas(t *testing.T) {
	t.Setenv("STRATA_CSV_PROBE", "a,b,c")

	config := NewEnvConfiguration(false)
	if value := config.GetString("strata_csv_probe"); value != "a,b,c" {
		t.Errorf("Environment values must not be split, got '%s'", value)
	}
}

func TestDotEnvLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, ".env", `# Application settings
APP_NAME=strata
APP_PORT=8080
APP_DEBUG=true
GREETING="hello world"
QUOTED='single'

TIMEOUT=30s
`)

	config, err := NewDotEnvConfiguration(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Path() != path {
		t.Errorf("Path not recorded, got '%s'", config.Path())
	}

	if value := config.GetString("app_name"); value != "strata" {
		t.Errorf("Expected 'strata', got '%s'", value)
	}
	if value := config.GetInt("app_port"); value != 8080 {
		t.Errorf("Expected 8080, got %d", value)
	}
	if !config.GetBool("app_debug") {
		t.Error("Expected app_debug to be true")
	}
	if value := config.GetString("greeting"); value != "hello world" {
		t.Errorf("Expected quotes stripped, got '%s'", value)
	}
	if value := config.GetString("quoted"); value != "single" {
		t.Errorf("Expected quotes stripped, got '%s'", value)
	}
	if value := config.GetDuration("timeout").String(); value != "30s" {
		t.Errorf("Expected 30s, got %s", value)
	}
}

func TestDotEnvExpansion(t *testing.T) {
	t.Setenv("STRATA_DOTENV_HOST", "example.org")

	dir := t.TempDir()
	path := writeTempFile(t, dir, ".env", `BASE=/srv/app
LOGS=${BASE}/logs
URL=https://${STRATA_DOTENV_HOST}/api
MISSING=${NO_SUCH_VARIABLE}
`)

	config, err := NewDotEnvConfiguration(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if value := config.GetString("logs"); value != "/srv/app/logs" {
		t.Errorf("Expected '/srv/app/logs', got '%s'", value)
	}
	if value := config.GetString("url"); value != "https://example.org/api" {
		t.Errorf("Expected 'https://example.org/api', got '%s'", value)
	}
	if value := config.GetString("missing"); value != "${NO_SUCH_VARIABLE}" {
		t.Errorf("Unresolved references stay literal, got '%s'", value)
	}
}

func TestDotEnvInvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, ".env", "NOT A PAIR\n")

	_, err := NewDotEnvConfiguration(path)
	if err == nil {
		t.Fatal("Expected a parse error")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("Expected ParseError, got %T", err)
	}
}

func TestDotEnvMissingFile(t *testing.T) {
	if _, err := NewDotEnvConfiguration(filepath.Join(t.TempDir(), ".env")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}
