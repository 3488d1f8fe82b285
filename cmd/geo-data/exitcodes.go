package main

import "errors"

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
	exitOK           = 0
	exitUnsuccessful = 2
	exitUsage        = 3
	exitDB           = 4
)

// errUnsuccessful marks an import that ran but reported row errors. The
// result has already been printed.
var errUnsuccessful = errors.New("import finished with errors")

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
	return 1
}
