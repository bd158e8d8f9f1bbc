package grace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// SetupSignalHandler returns a context that is cancelled on the first SIGINT or SIGTERM.
// A second signal terminates the process immediately.
func SetupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()

	return ctx
}

// IsGracefulExit is true for errors that signal an orderly shutdown
func IsGracefulExit(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed)
}

// ExitOrLog terminates the process if err is a real failure
func ExitOrLog(logger log.Logger, err error) {
	if IsGracefulExit(err) {
		level.Info(logger).Log("msg", "shutdown complete")
		return
	}

	level.Error(logger).Log("msg", "fatal error", "err", err)
	os.Exit(1)
}

// SuccessRequired terminates the process with a message if err is not nil
func SuccessRequired(err error, msg string) {
	if err == nil {
		return
	}

	fmt.Fprint(os.Stderr, describeFailure(err, msg))
	os.Exit(1)
}

func describeFailure(err error, msg string) string {
	var actionable Error
	if errors.As(err, &actionable) {
		return fmt.Sprintf("%s: %v\n\nWhat to do: %s\n", msg, actionable.WhatHappened(), actionable.WhatToDo())
	}

	return fmt.Sprintf("%s: %v\n", msg, err)
}
