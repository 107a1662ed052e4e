// Package packaging invokes the external packaging/preservation toolchain.
// The toolchain does the actual SIP creation; this package only starts it and
// reports whether the hand-off happened.
package packaging

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/dpres-tools/presgw/internal/config"
	"github.com/dpres-tools/presgw/internal/log"
	"github.com/google/uuid"
)

const (
	// StatusPackaging is the opaque status token acknowledged to callers
	// after a successful submission.
	StatusPackaging = "packaging"

	// maxStderrBytes caps the amount of stderr captured from toolchain runs.
	maxStderrBytes = 64 * 1024

	// terminationGracePeriod is the time we wait after SIGTERM before SIGKILL.
	terminationGracePeriod = 5 * time.Second
)

// Submission acknowledges that a packaging job was handed to the toolchain.
// It makes no claim about eventual success; the pipeline owns job status.
type Submission struct {
	ID          string
	DatasetID   string
	Status      string
	SubmittedAt time.Time
}

// ToolError is a failure reported by the toolchain itself (non-zero exit),
// as opposed to a failure to run it at all.
type ToolError struct {
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("toolchain exited with status %d", e.ExitCode)
	}
	return fmt.Sprintf("toolchain exited with status %d: %s", e.ExitCode, e.Stderr)
}

// Toolchain runs the configured packaging command.
type Toolchain struct {
	cfg    config.PackagingConfig
	logger *slog.Logger
}

// New creates a Toolchain from configuration.
func New(cfg config.PackagingConfig) *Toolchain {
	return &Toolchain{
		cfg:    cfg,
		logger: log.WithComponent("packaging"),
	}
}

// Submit starts a preservation/packaging job for the dataset and returns as
// soon as the process is running. The job's completion is never reported back
// here; it is observed through the pipeline's own records. Repeated calls
// submit duplicate jobs.
func (t *Toolchain) Submit(ctx context.Context, datasetID string) (Submission, error) {
	if strings.TrimSpace(datasetID) == "" {
		return Submission{}, fmt.Errorf("dataset reference is empty")
	}

	args := append(append([]string{}, t.cfg.SubmitArgs...), datasetID)
	// Deliberately not CommandContext: the job must outlive the HTTP request.
	cmd := exec.Command(t.cfg.Command, args...)
	cmd.Dir = t.cfg.WorkDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	sub := Submission{
		ID:          uuid.NewString(),
		DatasetID:   datasetID,
		Status:      StatusPackaging,
		SubmittedAt: time.Now().UTC(),
	}

	subLogger := t.logger.With("submission_id", sub.ID, "dataset_id", datasetID)
	subLogger.Info("submitting packaging job", "command", t.cfg.Command)

	if err := cmd.Start(); err != nil {
		return Submission{}, fmt.Errorf("start packaging command: %w", err)
	}

	// Reap the process so it does not linger as a zombie. The outcome is
	// logged only; the caller has already been acknowledged.
	go func() {
		if err := cmd.Wait(); err != nil {
			subLogger.Warn("packaging job exited with error",
				"error", err, "stderr", truncateStderr(stderr.String()))
			return
		}
		subLogger.Debug("packaging job process exited")
	}()

	return sub, nil
}

// GenerateMetadata runs the toolchain's technical metadata generation for a
// dataset and waits for it to finish. A non-zero exit comes back as a
// *ToolError; timeouts surface as context.DeadlineExceeded.
func (t *Toolchain) GenerateMetadata(ctx context.Context, datasetID string) error {
	if strings.TrimSpace(datasetID) == "" {
		return fmt.Errorf("dataset reference is empty")
	}

	timeout := t.cfg.GenerateTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	args := append(append([]string{}, t.cfg.GenerateArgs...), datasetID)
	cmd := exec.Command(t.cfg.Command, args...)
	cmd.Dir = t.cfg.WorkDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runLogger := t.logger.With("dataset_id", datasetID)
	runLogger.Debug("generating technical metadata", "command", t.cfg.Command, "timeout", timeout)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start packaging command: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	timeoutTimer := time.NewTimer(timeout)
	defer timeoutTimer.Stop()

	select {
	case <-ctx.Done():
		t.terminate(cmd, waitErr, runLogger)
		return ctx.Err()

	case <-timeoutTimer.C:
		runLogger.Warn("metadata generation timed out, sending SIGTERM")
		t.terminate(cmd, waitErr, runLogger)
		return context.DeadlineExceeded

	case err := <-waitErr:
		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				return &ToolError{
					ExitCode: exitErr.ExitCode(),
					Stderr:   truncateStderr(stderr.String()),
				}
			}
			return fmt.Errorf("wait for packaging command: %w", err)
		}
		return nil
	}
}

// terminate enforces SIGTERM, a grace period, then SIGKILL.
func (t *Toolchain) terminate(cmd *exec.Cmd, waitErr chan error, logger *slog.Logger) {
	if cmd.Process != nil {
		if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
			logger.Error("failed to send SIGTERM", "error", err)
		}
	}

	grace := time.NewTimer(terminationGracePeriod)
	defer grace.Stop()

	select {
	case <-waitErr:
		logger.Info("toolchain exited after SIGTERM")
	case <-grace.C:
		logger.Warn("toolchain did not exit after SIGTERM, sending SIGKILL")
		if cmd.Process != nil {
			if err := cmd.Process.Kill(); err != nil {
				logger.Error("failed to send SIGKILL", "error", err)
			}
		}
		<-waitErr
	}
}

func truncateStderr(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrBytes {
		return s[:maxStderrBytes] + "... (truncated)"
	}
	return s
}
