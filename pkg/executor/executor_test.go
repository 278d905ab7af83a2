package executor

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	e := New()

	out, err := e.Execute(context.Background(), "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("Execute() = %q, want hello", out)
	}

	_, err = e.Execute(context.Background(), "sh", "-c", "echo broken input >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "broken input") {
		t.Errorf("error %q does not carry stderr", err)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Errorf("error does not wrap exit code 3: %v", err)
	}
}

func TestCommandErrorTruncatesStderr(t *testing.T) {
	long := strings.Repeat("a", maxStderr) + "tail"
	err := commandError("ffmpeg", errors.New("exit status 1"), long)

	msg := err.Error()
	if !strings.HasSuffix(msg, "tail") {
		t.Errorf("message does not end with stderr tail")
	}
	if !strings.Contains(msg, "stderr: ...") {
		t.Errorf("message not marked as truncated: %.60s", msg)
	}
}
