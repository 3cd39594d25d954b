package testing

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ghelioth/les-bons-artisants-test/internal/platform/config"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
)

func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Defaults()
	cfg.Server.IP = "127.0.0.1"
	cfg.Server.Auth.Secret = "test-secret"
	cfg.Server.Auth.TTL = time.Hour
	cfg.Log.Level = "debug"
	cfg.Log.Dir = ""
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")

	return cfg
}

func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	logger, err := logging.New(logging.Config{
		Level: "error",
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}
