package fetch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Pioneer6/glfetch/fetch"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glfetch.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
timeout = "15s"
user_agent = "glfetch/1.0"
origin = "https://maps.example.com"
compression = true
hosted_api_pattern = '^https://api\.example\.com/'

[throttle]
rps = 20
burst = 5
`)

	cfg, err := fetch.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := &fetch.Config{
		Timeout:          "15s",
		UserAgent:        "glfetch/1.0",
		Origin:           "https://maps.example.com",
		Compression:      true,
		HostedAPIPattern: `^https://api\.example\.com/`,
		Throttle:         &fetch.ThrottleConfig{RPS: 20, Burst: 5},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}

	if _, err := fetch.Build(opts...); err != nil {
		t.Errorf("Build with config options: %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := fetch.LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("a missing config file should not error, got: %v", err)
	}
	if diff := cmp.Diff(&fetch.Config{}, cfg); diff != "" {
		t.Errorf("expected empty config (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, `timeout = [`)
	if _, err := fetch.LoadConfig(path); err == nil {
		t.Error("expected a parse error for malformed TOML")
	}
}

func TestConfig_Options_BadValues(t *testing.T) {
	testCases := []struct {
		name string
		cfg  fetch.Config
	}{
		{"bad duration", fetch.Config{Timeout: "fifteen seconds"}},
		{"bad pattern", fetch.Config{HostedAPIPattern: "(["}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.cfg.Options(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
