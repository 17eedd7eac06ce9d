// SPDX-FileCopyrightText: 2018, 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/dtn7/cboring"
	"github.com/howeyc/crc16"
)

// CRCType indicates which CRC type is used. Only the three defined consts
// CRCNo, CRC16 and CRC32 are valid, as specified in section 4.2.1.
type CRCType uint64

const (
	// CRCNo means no CRC to be present at all.
	CRCNo CRCType = 0

	// CRC16 represents "a standard X-25 CRC-16".
	CRC16 CRCType = 1

	// CRC32 represents "a standard CRC32C (Castagnoli) CRC-32".
	CRC32 CRCType = 2
)

func (c CRCType) String() string {
	switch c {
	case CRCNo:
		return "no"
	case CRC16:
		return "16"
	case CRC32:
		return "32"
	default:
		return "unknown"
	}
}

// length of a CRC value for this type; false for an unknown type.
func (c CRCType) length() (int, bool) {
	switch c {
	case CRCNo:
		return 0, true
	case CRC16:
		return 2, true
	case CRC32:
		return 4, true
	default:
		return 0, false
	}
}

var (
	crc16table = crc16.MakeTable(crc16.CCITT)
	crc32table = crc32.MakeTable(crc32.Castagnoli)
)

// CRC describes a block's checksum: its type and, unless the type is CRCNo,
// its raw big-endian value.
type CRC struct {
	Type  CRCType
	Value []byte
}

// Copy returns a CRC with its own value buffer.
func (c CRC) Copy() CRC {
	return CRC{Type: c.Type, Value: bytes.Clone(c.Value)}
}

// NoCRC returns a CRC descriptor without any value.
func NoCRC() CRC {
	return CRC{Type: CRCNo}
}

// HasCRC returns if the type indicates a CRC value.
func (c CRC) HasCRC() bool {
	return c.Type != CRCNo
}

func (c CRC) validate(ch *checker) {
	ch.rule(func() error {
		expected, known := c.Type.length()
		switch {
		case !known:
			return newError(CRCError, "unknown CRC type %d", uint64(c.Type))
		case c.Type == CRCNo && c.Value != nil:
			return newError(CRCError, "CRC type is none, but a value of %d bytes is present", len(c.Value))
		case c.Type != CRCNo && c.Value == nil:
			return newError(CRCError, "CRC type is %v, but no value is present", c.Type)
		case len(c.Value) != expected:
			return newError(CRCError, "CRC type %v requires %d bytes, got %d", c.Type, expected, len(c.Value))
		default:
			return nil
		}
	})
}

// CheckValid checks the value's presence and length against the type.
func (c CRC) CheckValid() error {
	return checkFirst(c)
}

// Violations returns all violations of this CRC.
func (c CRC) Violations() error {
	return checkAll(c)
}

// Calculate the CRC value of this type for some data.
func (c CRC) Calculate(data []byte) ([]byte, error) {
	switch c.Type {
	case CRCNo:
		return nil, nil

	case CRC16:
		value := make([]byte, 2)
		binary.BigEndian.PutUint16(value, crc16.Checksum(data, crc16table))
		return value, nil

	case CRC32:
		value := make([]byte, 4)
		binary.BigEndian.PutUint32(value, crc32.Checksum(data, crc32table))
		return value, nil

	default:
		return nil, newError(CRCError, "unknown CRC type %d", uint64(c.Type))
	}
}

// calculateCRCBuff calculates a block's CRC value for serialization. The
// buffer holds the block's serialization up to the CRC field, which will be
// appended as a zeroed byte string.
func calculateCRCBuff(buff *bytes.Buffer, crcType CRCType) ([]byte, error) {
	n, known := crcType.length()
	if !known {
		return nil, newError(CRCError, "unknown CRC type %d", uint64(crcType))
	}

	if err := cboring.WriteByteString(make([]byte, n), buff); err != nil {
		return nil, err
	}

	return CRC{Type: crcType}.Calculate(buff.Bytes())
}
