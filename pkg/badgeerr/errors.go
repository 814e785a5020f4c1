// Package badgeerr defines the coded errors raised while signing badges.
package badgeerr

import (
	"fmt"
)

// Code names a failure kind independently of its message.
type Code string

const (
	CodeUnknownKeyType        Code = "UNKNOWN_KEY_TYPE"
	CodePrivateKeyRead        Code = "PRIVATE_KEY_READ_ERROR"
	CodePublicKeyRead         Code = "PUBLIC_KEY_READ_ERROR"
	CodeFileToSignNotExists   Code = "FILE_TO_SIGN_NOT_EXISTS"
	CodeBadgeSignedFileExists Code = "BADGE_SIGNED_FILE_EXISTS"

	// CodeErrorSigningFile covers serialization, XML and signing failures.
	CodeErrorSigningFile Code = "ERROR_SIGNING_FILE"

	// CodeSignatureInvalid is raised by the verifier, never by the signer.
	CodeSignatureInvalid Code = "SIGNATURE_INVALID"
)

// Error is a failure of one signing step.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match any *Error carrying the same code, so the
// sentinels below compare equal to every error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error caused by err.
func Wrap(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

var (
	ErrUnknownKeyType        = &Error{Code: CodeUnknownKeyType}
	ErrPrivateKeyRead        = &Error{Code: CodePrivateKeyRead}
	ErrPublicKeyRead         = &Error{Code: CodePublicKeyRead}
	ErrFileToSignNotExists   = &Error{Code: CodeFileToSignNotExists}
	ErrBadgeSignedFileExists = &Error{Code: CodeBadgeSignedFileExists}
	ErrErrorSigningFile      = &Error{Code: CodeErrorSigningFile}
	ErrSignatureInvalid      = &Error{Code: CodeSignatureInvalid}
)

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) Code {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
