package main

import (
	"errors"

	tperrors "github.com/mono-ball/MonoBall-sub005/pkg/errors"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type exitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error {
	return e.err
}

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFailure
	}
	return e.code
}

func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return exitError{code: code, err: err}
}

// exitCodeForError maps usage and configuration problems to exit status 2
// and everything else to 1.
func exitCodeForError(err error) int {
	if err == nil {
		return exitOK
	}
	var coded exitCoder
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	switch tperrors.GetCode(err) {
	case tperrors.ErrCodeConfigLoad, tperrors.ErrCodeConfigParse, tperrors.ErrCodeConfigInvalid, tperrors.ErrCodeInvalidInput:
		return exitUsage
	}
	return exitFailure
}

// displayError prefers the user-facing message of coded errors.
func displayError(err error) string {
	var terr *tperrors.Error
	if errors.As(err, &terr) && terr.UserMessage != "" {
		return terr.UserMessage
	}
	return err.Error()
}
