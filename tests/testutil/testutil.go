package testutil

import (
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/kendall-kelly/restaurant-ms/config"
)

// TestDSN is the SQLite database every suite migrates and seeds
const TestDSN = ":memory:"

// RequireTestEnvironment fails the test unless GO_ENV is "test", so a suite
// never migrates or seeds a development or production database
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("refusing to touch the database with GO_ENV=%q, set GO_ENV=test", env)
	}
}

// MustSetTestEnvironment switches GO_ENV to test for the rest of the run.
// Call it from SetupSuite.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("failed to set GO_ENV=test: %v", err)
	}
}

// LogEnvironment writes the settings a suite runs with to the test log
func LogEnvironment(t *testing.T, cfg *config.Config) {
	t.Helper()

	t.Logf("test environment: GO_ENV=%s driver=%s dsn=%s images=%s redis=%s",
		os.Getenv("GO_ENV"), cfg.DBDriver, MaskDSN(TestDSN), cfg.ImageStorage, orNotSet(cfg.RedisAddr))
}

// MaskDSN hides the password in URL style and key=value DSNs
func MaskDSN(dsn string) string {
	if dsn == "" {
		return "(not set)"
	}

	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
		}
		return u.String()
	}

	fields := strings.Fields(dsn)
	for i, field := range fields {
		if strings.HasPrefix(field, "password=") {
			fields[i] = "password=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}

func orNotSet(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
