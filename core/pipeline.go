package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/josephlewis42/stush/core/shell"
	"golang.org/x/sys/unix"
)

// SpawnError is returned when a stage couldn't be started.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return fmt.Sprintf("%s: command not found", e.Name)
	case errors.Is(e.Err, fs.ErrPermission):
		return fmt.Sprintf("%s: permission denied", e.Name)
	default:
		return fmt.Sprintf("%s: %v", e.Name, unwrapPathError(e.Err))
	}
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Status is the status the stage is reported with.
func (e *SpawnError) Status() Status {
	switch {
	case errors.Is(e.Err, ErrNotFound), errors.Is(e.Err, unix.ENOENT):
		return statusNotFound
	case e.fatal():
		return statusFailure
	default:
		return statusNotRunnable
	}
}

// fatal is true if the system couldn't create the process at all, as opposed
// to the command not being runnable.
func (e *SpawnError) fatal() bool {
	for _, errno := range []unix.Errno{unix.EAGAIN, unix.ENOMEM, unix.EMFILE, unix.ENFILE} {
		if errors.Is(e.Err, errno) {
			return true
		}
	}
	return false
}

func unwrapPathError(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

// Replaced in tests to simulate exhausted system resources.
var (
	osPipe         = os.Pipe
	osStartProcess = os.StartProcess
)

// stageProc is a started pipeline stage.
type stageProc interface {
	wait() Status
}

// process is an external command.
type process struct {
	shell *Shell
	proc  *os.Process
}

func (p *process) wait() Status {
	defer p.proc.Release()

	for {
		var ws unix.WaitStatus
		_, err := unix.Wait4(p.proc.Pid, &ws, unix.WUNTRACED, nil)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			p.shell.log.Printf("wait4(%d): %v", p.proc.Pid, err)
			return statusFailure
		case ws.Exited(), ws.Signaled():
			return statusFromWait(ws)
		}
		// Stopped, keep waiting for it to finish.
	}
}

// builtinProc is a builtin running in a goroutine.
type builtinProc struct {
	done chan Status
}

func (b *builtinProc) wait() Status {
	return <-b.done
}

// finished is a stage that never started.
type finished Status

func (f finished) wait() Status {
	return Status(f)
}

// RunPipeline runs every stage of p connected by pipes and returns the status
// of the last stage.
//
// A pipeline with a single builtin runs it directly in the shell, so it can
// change the shell's state. Builtins in longer pipelines run on a subshell
// and can't.
func (s *Shell) RunPipeline(p shell.Pipeline) Status {
	switch len(p) {
	case 0:
		return statusSuccess
	case 1:
		return s.runSingle(p[0].Words)
	}

	pipes, err := openPipes(len(p) - 1)
	if err != nil {
		s.Errorf("pipe: %v", err)
		return statusFailure
	}

	var procs []stageProc
	var fatal error
	for i, stage := range p {
		stdin, stdout, stderr := s.stdin, s.stdout, s.stderr
		if i > 0 {
			stdin = pipes[i-1].r
		}
		if i < len(p)-1 {
			stdout = pipes[i].w
			if stage.Mode == shell.StdoutAndStderr {
				stderr = pipes[i].w
			}
		}

		proc, err := s.startStage(stage.Words, stdin, stdout, stderr)
		if err != nil {
			var spawnErr *SpawnError
			if errors.As(err, &spawnErr) && !spawnErr.fatal() {
				s.Errorf("%v", err)
				procs = append(procs, finished(spawnErr.Status()))
				continue
			}
			fatal = err
			break
		}
		procs = append(procs, proc)
	}

	// Readers only see EOF once every copy of the write end is closed.
	pipes.Close()

	var last Status
	for _, proc := range procs {
		last = proc.wait()
	}

	if fatal != nil {
		s.Errorf("%v", fatal)
		return statusFailure
	}
	return last
}

func (s *Shell) runSingle(words []string) Status {
	if builtin, ok := s.builtins.Lookup(words[0]); ok {
		s.log.Printf("builtin: %q", words)
		return Exited(builtin.Main(s, words))
	}

	proc, err := s.startProcess(words, s.stdin, s.stdout, s.stderr)
	if err != nil {
		s.Errorf("%v", err)
		var spawnErr *SpawnError
		if errors.As(err, &spawnErr) {
			return spawnErr.Status()
		}
		return statusFailure
	}
	return proc.wait()
}

func (s *Shell) startStage(words []string, stdin, stdout, stderr *os.File) (stageProc, error) {
	builtin, ok := s.builtins.Lookup(words[0])
	if !ok {
		proc, err := s.startProcess(words, stdin, stdout, stderr)
		if err != nil {
			return nil, err
		}
		return proc, nil
	}

	files, err := dupFiles(stdin, stdout, stderr)
	if err != nil {
		return nil, &SpawnError{Name: words[0], Err: err}
	}

	s.log.Printf("builtin in subshell: %q", words)
	sub := s.Subshell(files[0], files[1], files[2])
	proc := &builtinProc{done: make(chan Status, 1)}
	go func() {
		defer files.Close()
		proc.done <- Exited(builtin.Main(sub, words))
	}()

	return proc, nil
}

func (s *Shell) startProcess(words []string, stdin, stdout, stderr *os.File) (*process, error) {
	name := words[0]
	path, err := LookPath(s.fs, s.dir, s.Path(), name)
	if err != nil {
		return nil, &SpawnError{Name: name, Err: err}
	}

	s.log.Printf("exec: %s %q", path, words)
	proc, err := osStartProcess(path, words, &os.ProcAttr{
		Dir:   s.dir,
		Env:   s.env.Environ(),
		Files: []*os.File{stdin, stdout, stderr},
	})
	if err != nil {
		return nil, &SpawnError{Name: name, Err: err}
	}

	return &process{shell: s, proc: proc}, nil
}

type pipe struct {
	r *os.File
	w *os.File
}

type pipeList []pipe

// openPipes creates n pipes, if any fails all of them are closed.
func openPipes(n int) (pipeList, error) {
	var pipes pipeList
	for i := 0; i < n; i++ {
		r, w, err := osPipe()
		if err != nil {
			pipes.Close()
			return nil, err
		}
		pipes = append(pipes, pipe{r: r, w: w})
	}
	return pipes, nil
}

func (pl pipeList) Close() {
	for _, p := range pl {
		p.r.Close()
		p.w.Close()
	}
}

type fileList []*os.File

func (fl fileList) Close() {
	for _, f := range fl {
		f.Close()
	}
}

// dupFiles duplicates the descriptors so a goroutine can own them after the
// originals are closed.
func dupFiles(files ...*os.File) (fileList, error) {
	var out fileList
	for _, f := range files {
		fd, err := unix.FcntlInt(f.Fd(), unix.F_DUPFD_CLOEXEC, 0)
		if err != nil {
			out.Close()
			return nil, os.NewSyscallError("fcntl", err)
		}
		out = append(out, os.NewFile(uintptr(fd), f.Name()))
	}
	return out, nil
}
