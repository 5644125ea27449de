/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel error taxonomy shared by every codec
  and by the container reader/writer.

LICENSE
  This software is distributed under the terms of the MIT license.
  See the LICENSE file in the project root for the full text.
*/

package flic

import "github.com/pkg/errors"

// FlicError is a sentinel error identifying the class of failure.
// Use errors.Cause (or errors.Is against the package-level constants below)
// to recover one of these from an error that has been wrapped with
// additional context.
type FlicError string

func (e FlicError) Error() string { return string(e) }

// Sentinel errors returned (possibly wrapped) by this package.
const (
	// ErrNoFile indicates the path does not exist for Open.
	ErrNoFile = FlicError("flic: no such file")

	// ErrNotARegularFile indicates the path exists but isn't a file.
	ErrNotARegularFile = FlicError("flic: not a regular file")

	// ErrBadMagic indicates an unknown file or chunk type code.
	ErrBadMagic = FlicError("flic: bad magic")

	// ErrBadInput indicates an invalid argument, e.g. a palette length
	// that isn't a multiple of 3.
	ErrBadInput = FlicError("flic: bad input")

	// ErrCorrupted indicates a structural violation in a stream:
	// packet overruns, inconsistent sizes, an out-of-range palette
	// value.
	ErrCorrupted = FlicError("flic: corrupted")

	// ErrWrongResolution indicates a width/height constraint was
	// violated: a FLI that isn't 320x200, mismatched encoder
	// dimensions, or zero postage-stamp parameters.
	ErrWrongResolution = FlicError("flic: wrong resolution")

	// ErrExceededLimit indicates output would overflow a 16- or
	// 32-bit on-disk field.
	ErrExceededLimit = FlicError("flic: exceeded limit")
)

// wrap attaches a stack trace and short message to err using
// pkg/errors, leaving the original sentinel recoverable via
// errors.Cause.
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
