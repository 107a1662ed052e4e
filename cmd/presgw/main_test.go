package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureOutputWithExitCode(t *testing.T, run func() int) (int, string, string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe stdout failed: %v", err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe stderr failed: %v", err)
	}

	os.Stdout = stdoutW
	os.Stderr = stderrW

	code := run()

	_ = stdoutW.Close()
	_ = stderrW.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	stdoutBytes, _ := io.ReadAll(stdoutR)
	stderrBytes, _ := io.ReadAll(stderrR)

	_ = stdoutR.Close()
	_ = stderrR.Close()

	return code, string(stdoutBytes), string(stderrBytes)
}

func writeConfigFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	configYAML := `
catalog:
  base_url: "https://catalog.example.org/api"
  token: "catalog-secret"
packaging:
  command: "/bin/sh"
api:
  auth:
    api_key: "test-key-123"
`
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func TestRunConfigCheckValidConfig(t *testing.T) {
	configPath := writeConfigFixture(t)

	code, stdout, stderr := captureOutputWithExitCode(t, func() int {
		return runConfigCheck([]string{"--config", configPath})
	})
	if code != 0 {
		t.Fatalf("runConfigCheck() code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Configuration OK") {
		t.Fatalf("stdout missing OK summary: %s", stdout)
	}
}

func TestRunConfigCheckInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	// No packaging command and no auth.
	configYAML := `
catalog:
  base_url: "https://catalog.example.org/api"
`
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := captureOutputWithExitCode(t, func() int {
		return runConfigCheck([]string{"--config", configPath})
	})
	if code == 0 {
		t.Fatalf("runConfigCheck() should fail for invalid config, stderr: %s", stderr)
	}
}

func TestRunConfigLockWritesChecksums(t *testing.T) {
	configPath := writeConfigFixture(t)

	code, stdout, stderr := captureOutputWithExitCode(t, func() int {
		return runConfigLock([]string{"--config", configPath})
	})
	if code != 0 {
		t.Fatalf("runConfigLock() code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Wrote ") {
		t.Fatalf("stdout missing wrote line: %s", stdout)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(configPath), ".checksums")); err != nil {
		t.Fatalf("expected .checksums to be written: %v", err)
	}

	// A locked, untouched config still passes check.
	code, _, stderr = captureOutputWithExitCode(t, func() int {
		return runConfigCheck([]string{"--config", configPath})
	})
	if code != 0 {
		t.Fatalf("runConfigCheck() after lock code = %d, stderr: %s", code, stderr)
	}
}

func TestRunConfigCheckRejectsTamperedLockedConfig(t *testing.T) {
	configPath := writeConfigFixture(t)

	if code, _, stderr := captureOutputWithExitCode(t, func() int {
		return runConfigLock([]string{"--config", configPath})
	}); code != 0 {
		t.Fatalf("runConfigLock() code = %d, stderr: %s", code, stderr)
	}

	f, err := os.OpenFile(configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("\n# edited\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	code, _, stderr := captureOutputWithExitCode(t, func() int {
		return runConfigCheck([]string{"--config", configPath})
	})
	if code == 0 {
		t.Fatalf("runConfigCheck() should fail for tampered locked config, stderr: %s", stderr)
	}
}

func TestRunConfigNounActionHelp(t *testing.T) {
	code, stdout, stderr := captureOutputWithExitCode(t, func() int {
		return runConfigNoun([]string{"help"})
	})
	if code != 0 {
		t.Fatalf("runConfigNoun() code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Usage: presgw config") {
		t.Fatalf("stdout missing config usage: %s", stdout)
	}
}

func TestRunSystemNounUnknownAction(t *testing.T) {
	code, _, stderr := captureOutputWithExitCode(t, func() int {
		return runSystemNoun([]string{"bounce"})
	})
	if code == 0 {
		t.Fatalf("runSystemNoun() should fail for unknown action")
	}
	if !strings.Contains(stderr, "Unknown system action") {
		t.Fatalf("stderr missing unknown action message: %s", stderr)
	}
}

func TestPrintUsageListsCommands(t *testing.T) {
	_, stdout, _ := captureOutputWithExitCode(t, func() int {
		printUsage()
		return 0
	})
	for _, want := range []string{"system start", "config check", "config lock", "doctor", "version"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("usage missing %q: %s", want, stdout)
		}
	}
}

func TestResolveConfigPathFlagWins(t *testing.T) {
	configPath := writeConfigFixture(t)
	t.Setenv("PRESGW_CONFIG", "/nonexistent/config.yaml")

	got, err := resolveConfigPath(configPath)
	if err != nil {
		t.Fatalf("resolveConfigPath: %v", err)
	}
	if got != configPath {
		t.Fatalf("expected flag value %q to win, got %q", configPath, got)
	}
}
