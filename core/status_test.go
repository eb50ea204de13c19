package core

import (
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func ExampleSignaled() {
	status := Signaled(unix.SIGKILL)
	fmt.Println(status, status.Code())

	// Output: signaled(SIGKILL) 137
}

func TestStatus(t *testing.T) {
	cases := map[string]struct {
		status  Status
		code    int
		success bool
	}{
		"zero":        {Exited(0), 0, true},
		"failure":     {Exited(1), 1, false},
		"truncated":   {Exited(256 + 3), 3, false},
		"wraps-zero":  {Exited(256), 0, true},
		"interrupted": {Signaled(unix.SIGINT), 130, false},
		"killed":      {Signaled(unix.SIGKILL), 137, false},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.status.Code())
			assert.Equal(t, tc.success, tc.status.Success())
		})
	}
}

func TestStatus_Signal(t *testing.T) {
	sig, ok := Signaled(unix.SIGTERM).Signal()
	assert.True(t, ok)
	assert.Equal(t, unix.SIGTERM, sig)

	_, ok = Exited(143).Signal()
	assert.False(t, ok)
}

func TestProcess_waitSignaled(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skipf("sleep not available: %v", err)
	}
	s, _, _ := newOSShell(t)

	proc, err := os.StartProcess(sleep, []string{"sleep", "30"}, &os.ProcAttr{})
	require.NoError(t, err)
	require.NoError(t, proc.Signal(os.Kill))

	status := (&process{shell: s, proc: proc}).wait()
	assert.Equal(t, 137, status.Code())
}

func TestProcess_waitStopped(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skipf("sleep not available: %v", err)
	}
	s, _, _ := newOSShell(t)

	proc, err := os.StartProcess(sleep, []string{"sleep", "30"}, &os.ProcAttr{})
	require.NoError(t, err)

	// A stopped child isn't finished, the wait continues until it's killed.
	require.NoError(t, proc.Signal(unix.SIGSTOP))
	go func() {
		time.Sleep(100 * time.Millisecond)
		proc.Signal(os.Kill)
	}()

	status := (&process{shell: s, proc: proc}).wait()
	assert.Equal(t, 137, status.Code())
}
