// Package tail provides a line-oriented reader over a spawned process's
// stdout, for test infrastructure that follows log output of external
// commands.
package tail

import (
	"bufio"
	"errors"
	"os"
	"os/exec"
)

// Logs spawns `<kubectlCommand> logs -f -n <namespace> <resource>` and
// returns a Reader following its output.
func Logs(kubectlCommand, namespace, resource string) (*Reader, error) {
	cmd := exec.Command(kubectlCommand, "logs", "-f", "-n", namespace, resource)
	return Spawn(cmd)
}

// Command spawns the given program and returns a Reader over its stdout.
func Command(name string, args ...string) (*Reader, error) {
	return Spawn(exec.Command(name, args...))
}

// Reader follows the line-oriented stdout stream of a child process.
// ReadLine pulls lines until the stream ends; Wait retrieves the process
// exit status after the stream is exhausted.
type Reader struct {
	cmd *exec.Cmd
	buf *bufio.Reader
}

// Spawn starts the command with piped stdout and returns a Reader over it.
// The command's stdin is null and its stderr passes through to the parent.
func Spawn(cmd *exec.Cmd) (*Reader, error) {
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &Reader{
		cmd: cmd,
		buf: bufio.NewReader(stdout),
	}, nil
}

// ReadLine returns the next line, including its trailing newline, or ok
// false at end of stream. A final unterminated line is returned as-is.
func (r *Reader) ReadLine() (string, bool) {
	line, _ := r.buf.ReadString('\n')
	if len(line) == 0 {
		return "", false
	}
	return line, true
}

// Collect drains the stream and returns all remaining lines.
func (r *Reader) Collect() []string {
	var lines []string
	for {
		line, ok := r.ReadLine()
		if !ok {
			return lines
		}
		lines = append(lines, line)
	}
}

// Kill stops the child process. The stream should still be drained and
// Wait called afterwards to reap the process.
func (r *Reader) Kill() error {
	return r.cmd.Process.Kill()
}

// Wait reaps the child after stream exhaustion and returns its exit state.
// A non-zero exit is reported through the state, not as an error.
func (r *Reader) Wait() (*os.ProcessState, error) {
	err := r.cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
	}
	return r.cmd.ProcessState, nil
}
