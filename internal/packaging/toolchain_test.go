package packaging

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dpres-tools/presgw/internal/config"
)

func TestSubmit(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "invoked")

	// A stand-in toolchain that records its arguments.
	script := filepath.Join(dir, "fake-pipeline.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\" > "+marker+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	tc := New(config.PackagingConfig{
		Command:    script,
		SubmitArgs: []string{"preserve"},
	})

	sub, err := tc.Submit(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if sub.ID == "" {
		t.Fatalf("expected a submission ID")
	}
	if sub.DatasetID != "abc123" {
		t.Fatalf("expected dataset abc123, got %q", sub.DatasetID)
	}
	if sub.Status != StatusPackaging {
		t.Fatalf("expected status %q, got %q", StatusPackaging, sub.Status)
	}
	if sub.SubmittedAt.IsZero() {
		t.Fatalf("expected a submission timestamp")
	}

	// Submit only starts the process; wait for the script to land.
	deadline := time.Now().Add(5 * time.Second)
	for {
		data, err := os.ReadFile(marker)
		if err == nil {
			if got := string(data); got != "preserve abc123\n" {
				t.Fatalf("unexpected toolchain arguments %q", got)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("toolchain was never invoked")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSubmit_EmptyDataset(t *testing.T) {
	tc := New(config.PackagingConfig{Command: "/bin/true"})

	if _, err := tc.Submit(context.Background(), "  "); err == nil {
		t.Fatalf("expected an error for an empty dataset reference")
	}
}

func TestSubmit_CommandMissing(t *testing.T) {
	tc := New(config.PackagingConfig{Command: "/no/such/binary"})

	if _, err := tc.Submit(context.Background(), "abc123"); err == nil {
		t.Fatalf("expected an error for a missing command")
	}
}

func TestSubmit_DuplicatesGetFreshIDs(t *testing.T) {
	tc := New(config.PackagingConfig{Command: "/bin/true"})

	first, err := tc.Submit(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	second, err := tc.Submit(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("second Submit failed: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct submission IDs, both were %q", first.ID)
	}
}

func TestGenerateMetadata_Success(t *testing.T) {
	tc := New(config.PackagingConfig{
		Command:         "/bin/sh",
		GenerateArgs:    []string{"-c", "exit 0", "--"},
		GenerateTimeout: 10 * time.Second,
	})

	if err := tc.GenerateMetadata(context.Background(), "abc123"); err != nil {
		t.Fatalf("GenerateMetadata failed: %v", err)
	}
}

func TestGenerateMetadata_ToolError(t *testing.T) {
	tc := New(config.PackagingConfig{
		Command:         "/bin/sh",
		GenerateArgs:    []string{"-c", "echo 'bad file format' >&2; exit 3", "--"},
		GenerateTimeout: 10 * time.Second,
	})

	err := tc.GenerateMetadata(context.Background(), "abc123")
	if err == nil {
		t.Fatalf("expected an error for a failing toolchain")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %T: %v", err, err)
	}
	if toolErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", toolErr.ExitCode)
	}
	if toolErr.Stderr != "bad file format" {
		t.Fatalf("unexpected stderr %q", toolErr.Stderr)
	}
}

func TestGenerateMetadata_Timeout(t *testing.T) {
	tc := New(config.PackagingConfig{
		Command:         "/bin/sh",
		GenerateArgs:    []string{"-c", "sleep 30", "--"},
		GenerateTimeout: 100 * time.Millisecond,
	})

	start := time.Now()
	err := tc.GenerateMetadata(context.Background(), "abc123")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("termination took too long: %v", elapsed)
	}
}

func TestGenerateMetadata_ContextCancel(t *testing.T) {
	tc := New(config.PackagingConfig{
		Command:         "/bin/sh",
		GenerateArgs:    []string{"-c", "sleep 30", "--"},
		GenerateTimeout: time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	err := tc.GenerateMetadata(ctx, "abc123")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected Canceled, got %v", err)
	}
}

func TestToolError_Error(t *testing.T) {
	e := &ToolError{ExitCode: 2}
	if e.Error() != "toolchain exited with status 2" {
		t.Fatalf("unexpected message %q", e.Error())
	}

	e = &ToolError{ExitCode: 2, Stderr: "boom"}
	if e.Error() != "toolchain exited with status 2: boom" {
		t.Fatalf("unexpected message %q", e.Error())
	}
}

func TestTruncateStderr(t *testing.T) {
	if got := truncateStderr("  hello \n"); got != "hello" {
		t.Fatalf("expected trimmed stderr, got %q", got)
	}

	long := make([]byte, maxStderrBytes+100)
	for i := range long {
		long[i] = 'x'
	}
	got := truncateStderr(string(long))
	if len(got) != maxStderrBytes+len("... (truncated)") {
		t.Fatalf("unexpected truncated length %d", len(got))
	}
}
