package core

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestRunPipeline_pipeFailure(t *testing.T) {
	s, stdout, stderr := newOSShell(t, "echo", "cat")

	var opened []*os.File
	osPipe = func() (*os.File, *os.File, error) {
		if len(opened) > 0 {
			return nil, nil, os.NewSyscallError("pipe2", unix.EMFILE)
		}
		r, w, err := os.Pipe()
		opened = append(opened, r, w)
		return r, w, err
	}
	t.Cleanup(func() { osPipe = os.Pipe })

	status := s.RunLine("echo hi | cat | cat")
	assert.Equal(t, 1, status.Code())
	assert.Equal(t, "stush: pipe: pipe2: too many open files\n", stderr.Flush(t))
	assert.Empty(t, stdout.Flush(t), "nothing should have started")

	require.Len(t, opened, 2)
	for _, f := range opened {
		assert.ErrorIs(t, f.Close(), os.ErrClosed, "pipes opened before the failure are closed")
	}
}

func TestRunPipeline_fatalSpawn(t *testing.T) {
	s, _, stderr := newOSShell(t, "sleep", "cat")

	var started []int
	osStartProcess = func(name string, argv []string, attr *os.ProcAttr) (*os.Process, error) {
		if len(started) > 0 {
			return nil, &os.PathError{Op: "fork/exec", Path: name, Err: unix.EAGAIN}
		}
		proc, err := os.StartProcess(name, argv, attr)
		if err == nil {
			started = append(started, proc.Pid)
		}
		return proc, err
	}
	t.Cleanup(func() { osStartProcess = os.StartProcess })

	status := s.RunLine("sleep 0.1 | cat | cat")
	assert.Equal(t, 1, status.Code())
	assert.Equal(t, "stush: cat: resource temporarily unavailable\n", stderr.Flush(t))

	// Stages started before the failure were waited for, not left as zombies.
	require.Len(t, started, 1)
	assert.Equal(t, unix.ESRCH, unix.Kill(started[0], 0))
}

func TestRunPipeline_notFoundStageStillRuns(t *testing.T) {
	s, stdout, stderr := newOSShell(t, "echo", "cat")

	status := s.RunLine("echo hi | nosuchcommand | cat")
	assert.True(t, status.Success())
	assert.Empty(t, stdout.Flush(t))
	assert.Equal(t, "stush: nosuchcommand: command not found\n", stderr.Flush(t))

	status = s.RunLine("echo hi | nosuchcommand")
	assert.Equal(t, 127, status.Code())
}
