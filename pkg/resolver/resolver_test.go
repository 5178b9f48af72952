package resolver

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	RunFunc func(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error)
	calls   [][]string
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	return m.RunFunc(ctx, name, args...)
}

func stdoutRunner(out string, code int, err error) *mockRunner {
	return &mockRunner{
		RunFunc: func(context.Context, string, ...string) ([]byte, []byte, int, error) {
			return []byte(out), nil, code, err
		},
	}
}

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		wantDir string
		wantOK  bool
	}{
		{
			name:    "single base apk",
			out:     "package:/data/app/~~x==/com.a-1==/base.apk\n",
			wantDir: "/data/app/~~x==/com.a-1==",
			wantOK:  true,
		},
		{
			name: "split apks prefer base",
			out: "package:/data/app/com.a-1/split_config.arm64_v8a.apk\n" +
				"package:/data/app/com.a-1/base.apk\n",
			wantDir: "/data/app/com.a-1",
			wantOK:  true,
		},
		{
			name:    "no base apk uses first line",
			out:     "package:/system/app/Foo/Foo.apk\npackage:/system/app/Foo/other.apk\n",
			wantDir: "/system/app/Foo",
			wantOK:  true,
		},
		{
			name:    "crlf and noise",
			out:     "WARNING: something\r\npackage:/data/app/app1/base.apk\r\n",
			wantDir: "/data/app/app1",
			wantOK:  true,
		},
		{name: "empty", out: "", wantOK: false},
		{name: "empty prefix", out: "package:\n", wantOK: false},
		{name: "unrelated", out: "Error: unknown package\n", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, ok := ParseOutput([]byte(tt.out))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantDir, dir)
		})
	}
}

func TestResolve_Found(t *testing.T) {
	runner := stdoutRunner("package:/data/app/app1/base.apk\n", 0, nil)
	r := New(runner)

	dir, found, err := r.Resolve(context.Background(), "app1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/data/app/app1", dir)
	assert.Equal(t, [][]string{{"pm", "path", "app1"}}, runner.calls)
}

func TestResolve_NotInstalled(t *testing.T) {
	// pm exits 1 with no output for unknown packages
	runner := stdoutRunner("", 1, &exec.ExitError{})
	r := New(runner)

	dir, found, err := r.Resolve(context.Background(), "com.missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, dir)
}

func TestResolve_EmptyOutputSuccessExit(t *testing.T) {
	r := New(stdoutRunner("", 0, nil))

	_, found, err := r.Resolve(context.Background(), "com.missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolve_CommandMissing(t *testing.T) {
	runner := stdoutRunner("", 127, &exec.Error{Name: "pm", Err: exec.ErrNotFound})
	r := New(runner)

	_, _, err := r.Resolve(context.Background(), "app1")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrResolverFailure))
	assert.Equal(t, "app1", errors.GetErrorDetails(err)["package"])
}

func TestResolve_ServiceUnavailable(t *testing.T) {
	// pm before the package service is up
	runner := &mockRunner{
		RunFunc: func(context.Context, string, ...string) ([]byte, []byte, int, error) {
			return nil, []byte("cmd: Can't find service: package\n"), 20, &exec.ExitError{}
		},
	}
	r := New(runner)

	_, found, err := r.Resolve(context.Background(), "app1")
	require.Error(t, err)
	assert.False(t, found)
	assert.True(t, errors.IsErrorCode(err, errors.ErrResolverFailure))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, 20, details["exit_code"])
	assert.Equal(t, "cmd: Can't find service: package", details["stderr"])
}

func TestResolve_UnexpectedReplies(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		stderr string
		code   int
	}{
		{name: "other exit code", code: 2},
		{name: "not found exit with stderr", stderr: "Error: boom", code: 1},
		{name: "not found exit with stdout noise", stdout: "Error: boom", code: 1},
		{name: "success exit with stderr", stderr: "warning", code: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{
				RunFunc: func(context.Context, string, ...string) ([]byte, []byte, int, error) {
					var err error
					if tt.code != 0 {
						err = &exec.ExitError{}
					}
					return []byte(tt.stdout), []byte(tt.stderr), tt.code, err
				},
			}

			_, _, err := New(runner).Resolve(context.Background(), "app1")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrResolverFailure))
		})
	}
}

func TestResolve_ServiceUnavailableViaExec(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	script := filepath.Join(t.TempDir(), "pm")
	body := "#!/bin/sh\necho \"cmd: Can't find service: package\" >&2\nexit 20\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))

	r := New(ExecRunner{}, WithCommand(script))
	_, found, err := r.Resolve(context.Background(), "app1")
	require.Error(t, err)
	assert.False(t, found)
	assert.True(t, errors.IsErrorCode(err, errors.ErrResolverFailure))
}

func TestResolve_ContextCancelled(t *testing.T) {
	runner := &mockRunner{
		RunFunc: func(ctx context.Context, _ string, _ ...string) ([]byte, []byte, int, error) {
			<-ctx.Done()
			return nil, nil, -1, ctx.Err()
		},
	}
	r := New(runner, WithTimeout(10*time.Millisecond))

	_, _, err := r.Resolve(context.Background(), "app1")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrResolverFailure))
}

func TestResolve_CustomCommand(t *testing.T) {
	runner := stdoutRunner("package:/data/app/x/base.apk", 0, nil)
	r := New(runner, WithCommand("/system/bin/pm"), WithCommand(""))

	_, found, err := r.Resolve(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/system/bin/pm", runner.calls[0][0])
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var runner ExecRunner

	stdout, _, code, err := runner.Run(context.Background(), "sh", "-c", "echo package:/data/app/a/base.apk")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	dir, ok := ParseOutput(stdout)
	assert.True(t, ok)
	assert.Equal(t, "/data/app/a", dir)

	_, _, code, err = runner.Run(context.Background(), "sh", "-c", "exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, code)

	_, _, code, err = runner.Run(context.Background(), "oukaro-no-such-binary")
	require.Error(t, err)
	assert.Equal(t, 127, code)
}
