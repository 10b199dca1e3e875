package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

// ProcessConfig describes an engine subprocess.
type ProcessConfig struct {
	// Command is the executable to start.
	Command string

	// Args are passed to Command.
	Args []string

	// Dir is the working directory (empty = current).
	Dir string

	// Env is appended to the inherited environment.
	Env []string

	// Stderr receives the engine's stderr. Nil forwards it to Logger.
	Stderr io.Writer

	// StopTimeout is how long Close waits after closing stdin before
	// killing the process (default 3s).
	StopTimeout time.Duration

	// Logger is used for lifecycle messages.
	Logger *slog.Logger
}

// Process is a Transport over the stdin/stdout of a child process.
type Process struct {
	*Stream

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	config  ProcessConfig
	logger  *slog.Logger
	exited  chan struct{}
	waitErr error

	closeOnce sync.Once
}

// StartProcess starts the engine and frames its stdio.
func StartProcess(ctx context.Context, config ProcessConfig, opts ...Option) (*Process, error) {
	if config.Command == "" {
		return nil, errors.New("engine command is empty")
	}
	if config.StopTimeout == 0 {
		config.StopTimeout = 3 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	cmd.Dir = config.Dir
	if len(config.Env) > 0 {
		cmd.Env = append(cmd.Environ(), config.Env...)
	}
	if config.Stderr != nil {
		cmd.Stderr = config.Stderr
	} else {
		cmd.Stderr = &logWriter{logger: logger.With(slog.String("engine", config.Command))}
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine %s: %w", config.Command, err)
	}

	p := &Process{
		Stream: NewStream(stdout, stdin, nil, append([]Option{WithName("stdio")}, opts...)...),
		cmd:    cmd,
		stdin:  stdin,
		config: config,
		logger: logger,
		exited: make(chan struct{}),
	}
	go p.wait()

	logger.Info("engine started", slog.String("command", config.Command), slog.Int("pid", cmd.Process.Pid))
	return p, nil
}

func (p *Process) wait() {
	p.waitErr = p.cmd.Wait()
	close(p.exited)
	p.logger.Info("engine exited", slog.Any("error", p.waitErr))
}

// Exited is closed when the process has terminated.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// Close closes stdin, waits for the engine to exit and kills it after
// StopTimeout.
func (p *Process) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.Stream.closed.Store(true)
		_ = p.stdin.Close()

		select {
		case <-p.exited:
		case <-time.After(p.config.StopTimeout):
			p.logger.Warn("engine did not exit, killing it", slog.Duration("timeout", p.config.StopTimeout))
			_ = p.cmd.Process.Kill()
			<-p.exited
		}

		var exitErr *exec.ExitError
		if p.waitErr != nil && !errors.As(p.waitErr, &exitErr) {
			err = p.waitErr
		}
	})
	return err
}

// logWriter forwards each written chunk to slog.
type logWriter struct {
	logger *slog.Logger
}

func (w *logWriter) Write(b []byte) (int, error) {
	w.logger.Info(string(trimNewline(b)))
	return len(b), nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
