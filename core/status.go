package core

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Status is how a command finished: either it exited with a code or it was
// killed by a signal.
type Status struct {
	code   int
	signal unix.Signal
}

// Exited creates the status of a command that exited with code.
func Exited(code int) Status {
	return Status{code: code & 0xff}
}

// Signaled creates the status of a command killed by sig.
func Signaled(sig unix.Signal) Status {
	return Status{signal: sig}
}

// Code is the status as a shell reports it: the exit code, or 128 plus the
// signal number.
func (s Status) Code() int {
	if s.signal != 0 {
		return 128 + int(s.signal)
	}
	return s.code
}

// Success is true if the command exited with code 0.
func (s Status) Success() bool {
	return s.Code() == 0
}

// Signal returns the signal that killed the command, if there was one.
func (s Status) Signal() (unix.Signal, bool) {
	return s.signal, s.signal != 0
}

func (s Status) String() string {
	if s.signal != 0 {
		return fmt.Sprintf("signaled(%s)", unix.SignalName(s.signal))
	}
	return fmt.Sprintf("exited(%d)", s.code)
}

func statusFromWait(ws unix.WaitStatus) Status {
	if ws.Signaled() {
		return Signaled(ws.Signal())
	}
	return Exited(ws.ExitStatus())
}

// Conventional statuses for failures the shell detects itself.
var (
	statusSuccess     = Exited(0)
	statusFailure     = Exited(1)
	statusSyntaxError = Exited(2)
	statusNotRunnable = Exited(126)
	statusNotFound    = Exited(127)
)
