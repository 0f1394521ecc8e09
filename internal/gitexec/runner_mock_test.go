package gitexec

// mockCommandRunner records every invocation and answers from a func field,
// defaulting to empty output and no error.
type mockCommandRunner struct {
	runFunc      func(name string, args ...string) ([]byte, error)
	runInDirFunc func(dir, name string, args ...string) ([]byte, error)

	calls []mockCall
}

type mockCall struct {
	name string
	args []string
	dir  string
}

func (m *mockCommandRunner) Run(name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, mockCall{name: name, args: args})
	if m.runFunc != nil {
		return m.runFunc(name, args...)
	}
	return nil, nil
}

func (m *mockCommandRunner) RunInDir(dir, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, mockCall{name: name, args: args, dir: dir})
	if m.runInDirFunc != nil {
		return m.runInDirFunc(dir, name, args...)
	}
	return nil, nil
}
