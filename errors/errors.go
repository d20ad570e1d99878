// Package errors provides error handling for vparams.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrDocumentMissing) {
//	    // handle missing source document
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// GetReportableStackTrace extracts the stack trace attached to an error.
var GetReportableStackTrace = crdb.GetReportableStackTrace

// Sentinel errors for the catalog pipeline.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrDocumentMissing indicates a source document does not exist or is
	// unreadable. Fatal: the validation pipeline cannot run without it.
	ErrDocumentMissing = New("source document missing")

	// ErrDocumentParse indicates a source document exists but is not valid
	// YAML. Fatal for the affected document.
	ErrDocumentParse = New("source document unparseable")

	// ErrDuplicateEntry indicates an append would introduce a duplicate
	// id or name into a source document.
	ErrDuplicateEntry = New("duplicate entry")

	// ErrCandidateInvalid indicates a candidate record failed its
	// pre-append schema check.
	ErrCandidateInvalid = New("candidate record invalid")

	// ErrMergeRejected indicates a pending-file merge was abandoned because
	// the merged result failed validation. The main documents are untouched.
	ErrMergeRejected = New("pending merge rejected")

	// ErrMaterialize indicates the relational artifact could not be built.
	// The artifact at the target path must be treated as unknown state.
	ErrMaterialize = New("materialization failed")
)

// IsDocumentMissing checks if an error is or wraps ErrDocumentMissing.
func IsDocumentMissing(err error) bool {
	return err != nil && Is(err, ErrDocumentMissing)
}

// IsDocumentParse checks if an error is or wraps ErrDocumentParse.
func IsDocumentParse(err error) bool {
	return err != nil && Is(err, ErrDocumentParse)
}

// IsMergeRejected checks if an error is or wraps ErrMergeRejected.
func IsMergeRejected(err error) bool {
	return err != nil && Is(err, ErrMergeRejected)
}
