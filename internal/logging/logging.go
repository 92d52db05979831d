// Package logging configures the process-wide slog logger once at startup.
//
// Levels are the three the store recognizes: info, debug and error. When
// RedirectStdio is set, anything written to os.Stdout or os.Stderr is logged
// line by line at info and error respectively until the returned restore
// function runs.
package logging

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mesh-intelligence/banana/pkg/types"
)

// Options configures Setup.
type Options struct {
	Level         string    // info (default), debug or error.
	RedirectStdio bool      // Route os.Stdout/os.Stderr into the logger.
	Output        io.Writer // Handler destination; defaults to os.Stdout.
}

// ParseLevel maps a level name to its slog level. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", types.LogLevelInfo:
		return slog.LevelInfo, nil
	case types.LogLevelDebug:
		return slog.LevelDebug, nil
	case types.LogLevelError:
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidLogLevel, name)
	}
}

// Setup installs a text handler at the requested level as the slog default
// and returns a function that undoes any stdio redirection and restores the
// previous default logger.
func Setup(opts Options) (func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	prev := slog.Default()
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if !opts.RedirectStdio {
		return func() { slog.SetDefault(prev) }, nil
	}

	stdout, err := redirect(&os.Stdout, logger, slog.LevelInfo)
	if err != nil {
		slog.SetDefault(prev)
		return nil, fmt.Errorf("redirect stdout: %w", err)
	}
	stderr, err := redirect(&os.Stderr, logger, slog.LevelError)
	if err != nil {
		stdout()
		slog.SetDefault(prev)
		return nil, fmt.Errorf("redirect stderr: %w", err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			stderr()
			stdout()
			slog.SetDefault(prev)
		})
	}, nil
}

// redirect swaps *f for the write end of a pipe and logs each line read from
// it at level. The returned function restores *f and waits for the reader to
// drain. The handler's own output must not be *f or lines loop back.
func redirect(f **os.File, logger *slog.Logger, level slog.Level) (func(), error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	orig := *f
	*f = w

	done := make(chan struct{})
	go func() {
		defer close(done)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
				logger.Log(context.Background(), level, line)
			}
		}
		r.Close()
	}()

	return func() {
		*f = orig
		w.Close()
		<-done
	}, nil
}
