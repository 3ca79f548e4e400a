package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// CommandRunner abstracts command execution so git reads can be faked in tests.
type CommandRunner interface {
	// Output runs name with args in dir and returns its stdout.
	Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// RealCommandRunner executes commands with os/exec.
type RealCommandRunner struct {
	Verbose bool
}

// Output runs the command and returns stdout. A failing command's stderr is
// folded into the returned error.
func (r *RealCommandRunner) Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if r.Verbose {
		cmd.Stderr = &teeWriter{buf: &stderr}
	}

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return out, errors.Wrapf(err, "%s %s", name, strings.Join(args, " "))
		}
		return out, errors.Wrapf(err, "%s %s: %s", name, strings.Join(args, " "), msg)
	}
	return out, nil
}

// teeWriter mirrors stderr to the terminal while still capturing it.
type teeWriter struct {
	buf *bytes.Buffer
}

func (w *teeWriter) Write(p []byte) (int, error) {
	_, _ = os.Stderr.Write(p)
	return w.buf.Write(p)
}

// MockCall records one command invocation.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

// MockCommandRunner answers commands from canned responses keyed by the
// joined argument list. Unknown commands fail.
type MockCommandRunner struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	calls     []MockCall

	// OutputFunc, when set, handles every call instead of the canned responses.
	OutputFunc func(dir string, name string, args ...string) ([]byte, error)
}

type mockResponse struct {
	out []byte
	err error
}

// NewMockCommandRunner returns an empty mock.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{responses: make(map[string]mockResponse)}
}

// On registers the output (or error) for name+args.
func (m *MockCommandRunner) On(out string, err error, name string, args ...string) *MockCommandRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.responses == nil {
		m.responses = make(map[string]mockResponse)
	}
	m.responses[mockKey(name, args)] = mockResponse{out: []byte(out), err: err}
	return m
}

// Output implements CommandRunner.
func (m *MockCommandRunner) Output(_ context.Context, dir string, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Dir: dir, Name: name, Args: append([]string(nil), args...)})
	fn := m.OutputFunc
	resp, ok := m.responses[mockKey(name, args)]
	m.mu.Unlock()

	if fn != nil {
		return fn(dir, name, args...)
	}
	if !ok {
		return nil, errors.Newf("unexpected command: %s %s", name, strings.Join(args, " "))
	}
	return resp.out, resp.err
}

// Calls returns the recorded invocations in order.
func (m *MockCommandRunner) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

func mockKey(name string, args []string) string {
	return name + " " + strings.Join(args, " ")
}
