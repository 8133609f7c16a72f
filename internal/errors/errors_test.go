package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("something went wrong"), expected: "Error: something went wrong"},
		{
			name:     "remote failure",
			err:      Remote("create completion", errors.New("connection refused")),
			expected: "Error: create completion: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s for day %d", "habits", 4)
	want := "Error: failed to load habits for day 4"
	if got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}

func TestRemoteFailure(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("toggle: %w", Remote("delete completion", cause))

	if !IsRemote(err) {
		t.Fatal("expected wrapped error to be recognised as remote failure")
	}
	if !errors.Is(err, cause) {
		t.Error("remote failure should unwrap to its cause")
	}
	if Remote("noop", nil) != nil {
		t.Error("Remote(nil) should return nil")
	}
	if IsRemote(ErrNoChallenge) {
		t.Error("ErrNoChallenge is not a remote failure")
	}
}

func TestValidationf(t *testing.T) {
	err := Validationf("weekly target %d outside 1..7", 9)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "weekly target 9") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

// TestFatal runs Fatal in a subprocess and inspects its exit code
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")
	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
