package execx

import (
	"context"
	stderrors "errors"

	"github.com/example/devsetup/pkg/errors"
)

// MockResponse defines the scripted outcome for a mocked command.
type MockResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is returned as a start failure, before exit-code handling.
	Err error
}

// MockRunner implements Runner for testing. Responses are keyed by the
// command name; unknown commands succeed with empty output.
type MockRunner struct {
	// Calls records all command invocations in order.
	Calls []Command

	// Responses maps a command name (or shell script) to its response.
	Responses map[string]MockResponse

	// Paths maps command names to their LookPath result. Names absent from
	// the map are treated as not installed.
	Paths map[string]string
}

// NewMockRunner creates a new mock runner with no commands on PATH.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string]MockResponse),
		Paths:     make(map[string]string),
	}
}

// AddResponse sets the response for a command name.
func (m *MockRunner) AddResponse(name string, resp MockResponse) {
	m.Responses[name] = resp
}

// AddPath marks a command as present on PATH.
func (m *MockRunner) AddPath(name, path string) {
	m.Paths[name] = path
}

func (m *MockRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	m.Calls = append(m.Calls, cmd)

	resp := m.Responses[cmd.Name]
	res := Result{
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
	}
	if resp.Err != nil {
		res.ExitCode = -1
		return res, resp.Err
	}
	if cmd.Check && res.ExitCode != 0 {
		return res, errors.Newf(errors.ErrCommandFailed,
			"%q exited with status %d", cmd.String(), res.ExitCode)
	}
	return res, nil
}

func (m *MockRunner) LookPath(name string) (string, error) {
	if path, ok := m.Paths[name]; ok {
		return path, nil
	}
	return "", stderrors.New("executable file not found in $PATH")
}

// CallNames returns the command names invoked so far, in order.
func (m *MockRunner) CallNames() []string {
	names := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		names = append(names, c.Name)
	}
	return names
}

// Verify interface compliance
var _ Runner = (*MockRunner)(nil)
var _ Runner = (*OSRunner)(nil)
