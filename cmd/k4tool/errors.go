package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/james-see/k4tool/pkg/k4"
	"github.com/james-see/k4tool/pkg/listing"
	"github.com/james-see/k4tool/pkg/sysex"
)

// Process exit codes
const (
	exitOK = iota
	exitFailure
	exitIO
	exitNotBank
	exitDecode
	exitOutOfRange
	exitUnsupportedFormat
)

// verifyError summarizes the failed files of a verify run and unwraps to
// the first failure
type verifyError struct {
	Total  int
	Failed int
	First  error
}

func (e *verifyError) add(err error) {
	if e.First == nil {
		e.First = err
	}
	e.Failed++
}

func (e *verifyError) Error() string {
	return fmt.Sprintf("%d of %d files failed verification", e.Failed, e.Total)
}

func (e *verifyError) Unwrap() error {
	return e.First
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	var (
		pathErr  *fs.PathError
		sizeErr  *sysex.SizeError
		decErr   *sysex.DecodeError
		rangeErr *k4.RangeError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &sizeErr):
		return exitNotBank
	case errors.As(err, &decErr):
		return exitDecode
	case errors.As(err, &rangeErr):
		return exitOutOfRange
	case errors.Is(err, listing.ErrUnsupportedFormat):
		return exitUnsupportedFormat
	case errors.As(err, &pathErr):
		return exitIO
	default:
		return exitFailure
	}
}

// errorMessage is the one line printed to stderr for err
func errorMessage(err error) string {
	var (
		verifyErr *verifyError
		sizeErr   *sysex.SizeError
		decErr    *sysex.DecodeError
	)
	switch {
	case errors.As(err, &verifyErr):
		return verifyErr.Error()
	case errors.As(err, &sizeErr):
		return "Not a bank file"
	case errors.As(err, &decErr):
		return "Bank parse failed, error: " + decErr.Error()
	default:
		return err.Error()
	}
}
