// SPDX-FileCopyrightText: 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		name string
	}{
		{CanonicalBlockError, "Canonical Block Error"},
		{PrimaryBlockError, "Primary Block Error"},
		{EndpointIDError, "Endpoint ID Error"},
		{DtnTimeError, "DTN Time Error"},
		{CRCError, "CRC Error"},
		{BundleError, "Bundle Error"},
		{BundleControlFlagsError, "Bundle Control Flags Error"},
		{BlockControlFlagsError, "Block Control Flags Error"},
		{JSONDecodeError, "JSON Decode Error"},
		{CBORDecodeError, "CBOR Decode Error"},
	}

	for _, test := range tests {
		assert.Equal(t, test.name, test.kind.String())
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "CRC Error: oh no", newError(CRCError, "oh %s", "no").Error())
	assert.Equal(t, "CBOR Decode Error: EOF", wrapError(CBORDecodeError, io.EOF).Error())

	err := &Error{Kind: JSONDecodeError, Msg: "invalid endpoint", Err: io.EOF}
	assert.Equal(t, "JSON Decode Error: invalid endpoint: EOF", err.Error())
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("context: %w", newError(CRCError, "mismatch"))

	assert.True(t, errors.Is(err, ErrCRC))
	assert.False(t, errors.Is(err, ErrBundle))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, CRCError, kind)

	_, ok = KindOf(io.EOF)
	assert.False(t, ok)
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, wrapError(BundleError, nil))

	orig := newError(BundleError, "some violation")
	assert.Same(t, orig, wrapError(BundleError, orig))

	wrapped := wrapError(CBORDecodeError, io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(wrapped, ErrCBORDecode))
	assert.True(t, errors.Is(wrapped, io.ErrUnexpectedEOF))
}
