package core

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/josephlewis42/stush/core/vars"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOutput is a file standing in for a terminal.
type testOutput struct {
	*os.File
}

func newTestOutput(t *testing.T) *testOutput {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "output")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return &testOutput{f}
}

// Flush returns everything written so far and empties the file.
func (o *testOutput) Flush(t *testing.T) string {
	t.Helper()

	_, err := o.Seek(0, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(o)
	require.NoError(t, err)
	require.NoError(t, o.Truncate(0))
	_, err = o.Seek(0, io.SeekStart)
	require.NoError(t, err)
	return string(data)
}

func devNull(t *testing.T) *os.File {
	t.Helper()

	f, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// newMemShell creates a shell on an in-memory filesystem, so it can only run
// builtins. Stdout and stderr share one file.
func newMemShell(t *testing.T) (*Shell, *testOutput) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/user", 0755))
	require.NoError(t, fs.MkdirAll("/tmp/a/b", 0755))
	require.NoError(t, afero.WriteFile(fs, "/tmp/file", []byte("x"), 0644))

	out := newTestOutput(t)
	s, err := NewShell(Options{
		Stdin:  devNull(t),
		Stdout: out.File,
		Stderr: out.File,
		Env:    vars.NewMapEnvFromEnvList([]string{"HOME=/home/user"}),
		Dir:    "/home/user",
		Fs:     fs,
		LookupHome: func(name string) (string, bool) {
			return "", false
		},
	})
	require.NoError(t, err)
	return s, out
}

// newOSShell creates a shell that runs real programs in a temporary
// directory. The test is skipped if any of the required programs is missing.
func newOSShell(t *testing.T, required ...string) (*Shell, *testOutput, *testOutput) {
	t.Helper()

	for _, name := range required {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	stdout := newTestOutput(t)
	stderr := newTestOutput(t)
	s, err := NewShell(Options{
		Stdin:  devNull(t),
		Stdout: stdout.File,
		Stderr: stderr.File,
		Env: vars.NewMapEnvFromEnvList([]string{
			"PATH=" + os.Getenv("PATH"),
			"HOME=" + dir,
			"LC_ALL=C",
		}),
		Dir: dir,
	})
	require.NoError(t, err)
	return s, stdout, stderr
}

func TestNewShell_defaults(t *testing.T) {
	env := vars.NewMapEnv()
	s, err := NewShell(Options{Env: env, Dir: "/"})
	require.NoError(t, err)

	assert.Equal(t, "/", s.Dir())
	assert.Equal(t, "/", env.Getenv(EnvPWD), "PWD is set when missing")
	assert.Equal(t, DefaultPath, s.Path())
	assert.Equal(t, " \t", s.Delimiters())
	assert.True(t, s.LastStatus().Success())

	_, ok := s.builtins.Lookup("cd")
	assert.True(t, ok)

	require.NoError(t, env.Setenv(EnvPath, "/opt/bin"))
	assert.Equal(t, "/opt/bin", s.Path())
}

func TestNewShell_keepsPWD(t *testing.T) {
	env := vars.NewMapEnvFromEnvList([]string{"PWD=/somewhere"})
	_, err := NewShell(Options{Env: env, Dir: "/"})
	require.NoError(t, err)

	assert.Equal(t, "/somewhere", env.Getenv(EnvPWD))
}

func TestShell_Chdir(t *testing.T) {
	s, _ := newMemShell(t)

	require.NoError(t, s.Chdir("/tmp/a"))
	assert.Equal(t, "/tmp/a", s.Dir())
	assert.Equal(t, "/tmp/a", s.Env().Getenv(EnvPWD))

	require.NoError(t, s.Chdir("b"))
	assert.Equal(t, "/tmp/a/b", s.Dir())

	assert.Error(t, s.Chdir("/tmp/file"))
	assert.Error(t, s.Chdir("/missing"))
	assert.Equal(t, "/tmp/a/b", s.Dir())
}

func TestShell_Subshell(t *testing.T) {
	s, _ := newMemShell(t)
	s.Vars().Set("A", "parent")

	sub := s.Subshell(s.stdin, s.stdout, s.stderr)
	sub.Vars().Set("A", "child")
	require.NoError(t, sub.Env().Setenv("B", "child"))
	require.NoError(t, sub.Chdir("/tmp"))
	Exit(sub, []string{"exit"})

	assert.Equal(t, "parent", s.Vars().Get("A"))
	assert.Equal(t, "", s.Env().Getenv("B"))
	assert.Equal(t, "/home/user", s.Dir())
	quit, _ := s.Quit()
	assert.False(t, quit)
}

func TestShell_specialParams(t *testing.T) {
	s, _ := newMemShell(t)

	s.lastStatus = Exited(3)
	assert.Equal(t, []string{"3", strconv.Itoa(os.Getpid())}, s.Expander().Expand([]string{"$?", "$$"}))
}

func TestShell_Errorf(t *testing.T) {
	s, out := newMemShell(t)

	s.Errorf("%s: broken", "thing")
	assert.Equal(t, "stush: thing: broken\n", out.Flush(t))
}

func TestShell_Prompt(t *testing.T) {
	s, _ := newMemShell(t)
	require.NoError(t, s.Env().Setenv(EnvUser, "ada"))
	require.NoError(t, s.Env().Setenv(EnvHostname, "engine"))

	assert.Equal(t, DefaultPrompt, s.Prompt(""))
	assert.Equal(t, "ada@engine:~ ", s.Prompt(`\u@\h:\w `))
	assert.Equal(t, "\033[01;32mada\033[00m", s.Prompt(`\033[01;32m\u\033[00m`))
	assert.Equal(t, "A\tB", s.Prompt(`\x41\t\x42`))

	require.NoError(t, s.Chdir("/tmp/a"))
	assert.Equal(t, "/tmp/a", s.Prompt(`\w`))

	require.NoError(t, s.Env().Setenv(EnvHome, "/tmp"))
	assert.Equal(t, "~/a", s.Prompt(`\w`))

	// Only whole path components are replaced.
	require.NoError(t, s.Env().Setenv(EnvHome, "/tm"))
	assert.Equal(t, "/tmp/a", s.Prompt(`\w`))

	p := s.Prompt(`\$`)
	assert.Contains(t, []string{"$", "#"}, p)
}

func TestShell_Prompt_colorDefault(t *testing.T) {
	env := vars.NewMapEnvFromEnvList([]string{"USER=ada", "HOSTNAME=engine", "HOME=/home/ada"})
	s, err := NewShell(Options{Env: env, Dir: "/home/ada", Fs: afero.NewMemMapFs(), Color: true})
	require.NoError(t, err)

	p := s.Prompt("")
	assert.True(t, strings.HasPrefix(p, "\033[01;32mada@engine\033[00m:\033[01;34m~\033[00m"), "%q", p)
	assert.Equal(t, ">>> ", s.Prompt(">>> "), "a configured prompt wins")
}
