// SPDX-FileCopyrightText: 2018, 2019, 2020, 2022 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dtn7/cboring"
	log "github.com/sirupsen/logrus"
)

// MarshalCbor writes this Bundle's CBOR representation, an indefinite-length
// array of the PrimaryBlock followed by each CanonicalBlock. CRC values are
// calculated for each block with a CRC type.
func (b *Bundle) MarshalCbor(w io.Writer) error {
	if _, err := w.Write([]byte{cboring.IndefiniteArray}); err != nil {
		return err
	}

	if err := cboring.Marshal(&b.PrimaryBlock, w); err != nil {
		return fmt.Errorf("PrimaryBlock failed: %w", err)
	}

	for i := range b.CanonicalBlocks {
		if err := cboring.Marshal(&b.CanonicalBlocks[i], w); err != nil {
			return fmt.Errorf("CanonicalBlock %d failed: %w", i, err)
		}
	}

	_, err := w.Write([]byte{cboring.BreakCode})
	return err
}

// UnmarshalCbor creates this Bundle based on a CBOR representation. The
// result is not validated, use ParseBundle or CheckValid afterwards.
func (b *Bundle) UnmarshalCbor(r io.Reader) error {
	if err := cboring.ReadExpect(cboring.IndefiniteArray, r); err != nil {
		return err
	}

	if err := cboring.Unmarshal(&b.PrimaryBlock, r); err != nil {
		return fmt.Errorf("PrimaryBlock failed: %w", err)
	}

	b.CanonicalBlocks = nil
	for {
		var cb CanonicalBlock
		if err := cboring.Unmarshal(&cb, r); err == cboring.FlagBreakCode {
			break
		} else if err != nil {
			return fmt.Errorf("CanonicalBlock %d failed: %w", len(b.CanonicalBlocks), err)
		}
		b.CanonicalBlocks = append(b.CanonicalBlocks, cb)
	}

	return nil
}

// decodeError marks codec failures as CBORDecodeError, keeping errors of
// another kind, e.g., a CRCError.
func decodeError(err error) error {
	var e *Error
	if err == nil || errors.As(err, &e) {
		return err
	}
	return wrapError(CBORDecodeError, err)
}

// DecodeBundle reads a Bundle's CBOR representation without validating it.
func DecodeBundle(r io.Reader) (b Bundle, err error) {
	err = decodeError(cboring.Unmarshal(&b, bufio.NewReader(r)))
	return
}

// ParseBundle reads a Bundle's CBOR representation and checks its validity.
func ParseBundle(r io.Reader) (b Bundle, err error) {
	if b, err = DecodeBundle(r); err != nil {
		return
	}

	if err = b.CheckValid(); err != nil {
		log.WithFields(log.Fields{
			"bundle": b.String(),
			"error":  err,
		}).Debug("Parsed Bundle is invalid")
	}
	return
}

// WriteBundle writes a Bundle's CBOR representation.
func (b *Bundle) WriteBundle(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := cboring.Marshal(b, bw); err != nil {
		return err
	}
	return bw.Flush()
}

// CalculateCRC calculates and sets the CRC value of each block with a CRC type.
func (b *Bundle) CalculateCRC() error {
	return b.MarshalCbor(io.Discard)
}

// MarshalJSON creates a JSON object for this Bundle. A decodable
// administrative record payload is included as "administrativeRecord".
func (b Bundle) MarshalJSON() ([]byte, error) {
	var ar AdministrativeRecord
	if b.IsAdministrativeRecord() {
		ar, _ = b.AdministrativeRecord()
	}

	return json.Marshal(&struct {
		PrimaryBlock         PrimaryBlock         `json:"primaryBlock"`
		CanonicalBlocks      []CanonicalBlock     `json:"canonicalBlocks"`
		AdministrativeRecord AdministrativeRecord `json:"administrativeRecord,omitempty"`
	}{
		PrimaryBlock:         b.PrimaryBlock,
		CanonicalBlocks:      b.CanonicalBlocks,
		AdministrativeRecord: ar,
	})
}
