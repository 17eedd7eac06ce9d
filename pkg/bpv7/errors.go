// SPDX-FileCopyrightText: 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an Error by the part of a Bundle it was raised for.
type ErrorKind int

const (
	// CanonicalBlockError is raised for an invalid CanonicalBlock.
	CanonicalBlockError ErrorKind = iota

	// PrimaryBlockError is raised for an invalid PrimaryBlock.
	PrimaryBlockError

	// EndpointIDError is raised for an unparsable or invalid EndpointID.
	EndpointIDError

	// DtnTimeError is raised for times not representable as a DtnTime.
	DtnTimeError

	// CRCError is raised for a malformed or mismatching CRC.
	CRCError

	// BundleError is raised for violations spanning multiple blocks.
	BundleError

	// BundleControlFlagsError is raised for invalid BundleControlFlags.
	BundleControlFlagsError

	// BlockControlFlagsError is raised for invalid BlockControlFlags.
	BlockControlFlagsError

	// JSONDecodeError wraps a failed JSON decoding.
	JSONDecodeError

	// CBORDecodeError wraps a failed CBOR decoding.
	CBORDecodeError
)

func (k ErrorKind) String() string {
	switch k {
	case CanonicalBlockError:
		return "Canonical Block Error"
	case PrimaryBlockError:
		return "Primary Block Error"
	case EndpointIDError:
		return "Endpoint ID Error"
	case DtnTimeError:
		return "DTN Time Error"
	case CRCError:
		return "CRC Error"
	case BundleError:
		return "Bundle Error"
	case BundleControlFlagsError:
		return "Bundle Control Flags Error"
	case BlockControlFlagsError:
		return "Block Control Flags Error"
	case JSONDecodeError:
		return "JSON Decode Error"
	case CBORDecodeError:
		return "CBOR Decode Error"
	default:
		return fmt.Sprintf("Unknown Error Kind %d", int(k))
	}
}

// Error is the error type returned by this package. It carries its ErrorKind
// and either a message, a wrapped error or both.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

// Sentinel errors, one per ErrorKind, to be used with errors.Is.
var (
	ErrCanonicalBlock     = &Error{Kind: CanonicalBlockError}
	ErrPrimaryBlock       = &Error{Kind: PrimaryBlockError}
	ErrEndpointID         = &Error{Kind: EndpointIDError}
	ErrDtnTime            = &Error{Kind: DtnTimeError}
	ErrCRC                = &Error{Kind: CRCError}
	ErrBundle             = &Error{Kind: BundleError}
	ErrBundleControlFlags = &Error{Kind: BundleControlFlagsError}
	ErrBlockControlFlags  = &Error{Kind: BlockControlFlagsError}
	ErrJSONDecode         = &Error{Kind: JSONDecodeError}
	ErrCBORDecode         = &Error{Kind: CBORDecodeError}
)

// newError creates an Error of the given kind with a formatted message.
func newError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// wrapError creates an Error of the given kind around another error. An error
// which already is an Error of the same kind is returned unchanged.
func wrapError(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) && e.Kind == kind {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a bare sentinel Error, e.g., ErrCRC, by its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the ErrorKind of the first Error within err's chain.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return
}
