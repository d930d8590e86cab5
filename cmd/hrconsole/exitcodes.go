package main

import (
	"github.com/go-faster/errors"

	"github.com/iota-uz/hr-console/modules/hrm/services"
	"github.com/iota-uz/hr-console/pkg/apiclient"
	"github.com/iota-uz/hr-console/pkg/crud"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitUsage      = 3
	exitAPI        = 4
	exitAuth       = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	switch {
	case errors.Is(err, crud.ErrValidation):
		return exitValidation
	case errors.Is(err, apiclient.ErrUnauthorized), errors.Is(err, services.ErrNotAuthenticated):
		return exitAuth
	case errors.Is(err, crud.ErrUnknownField), errors.Is(err, crud.ErrImmutableField):
		return exitUsage
	}
	if _, ok := apiclient.AsError(err); ok {
		return exitAPI
	}
	return exitFailure
}
