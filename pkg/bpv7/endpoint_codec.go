// SPDX-FileCopyrightText: 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dtn7/cboring"
)

// MarshalCbor writes this EndpointID's CBOR representation: an array of the
// scheme code and the SSP. The SSP of "dtn:none" is a zero, other dtn SSPs
// are text strings and ipn SSPs are arrays of node and service number.
func (e *EndpointID) MarshalCbor(w io.Writer) error {
	if err := cboring.WriteArrayLength(2, w); err != nil {
		return err
	}

	if err := cboring.WriteUInt(uint64(e.Scheme), w); err != nil {
		return err
	}

	switch e.Scheme {
	case SchemeDTN:
		if e.IsNull() {
			return cboring.WriteUInt(0, w)
		}
		return cboring.WriteTextString(e.SSP, w)

	case SchemeIPN:
		node, service, err := e.ipnNumbers()
		if err != nil {
			return err
		}

		if err := cboring.WriteArrayLength(2, w); err != nil {
			return err
		}
		for _, n := range []uint64{node, service} {
			if err := cboring.WriteUInt(n, w); err != nil {
				return err
			}
		}
		return nil

	default:
		return newError(EndpointIDError, "cannot marshal unknown scheme %d", uint64(e.Scheme))
	}
}

// UnmarshalCbor reads a CBOR representation of an EndpointID.
func (e *EndpointID) UnmarshalCbor(r io.Reader) error {
	if l, err := cboring.ReadArrayLength(r); err != nil {
		return err
	} else if l != 2 {
		return fmt.Errorf("expected array with length 2, got %d", l)
	}

	scheme, err := cboring.ReadUInt(r)
	if err != nil {
		return err
	}

	switch EndpointScheme(scheme) {
	case SchemeDTN:
		m, n, err := cboring.ReadMajors(r)
		if err != nil {
			return err
		}

		switch m {
		case cboring.UInt:
			// dtn:none
			if n != 0 {
				return newError(CBORDecodeError, "dtn endpoint: unsigned integer SSP must be 0 for dtn:none, not %d", n)
			}
			*e = DtnNone()

		case cboring.TextString:
			// dtn://whatever/
			ssp, err := cboring.ReadRawBytes(n, r)
			if err != nil {
				return err
			}
			*e = EndpointID{Scheme: SchemeDTN, SSP: string(ssp)}

		default:
			return fmt.Errorf("dtn endpoint: wrong major type 0x%X for unmarshalling", m)
		}

	case SchemeIPN:
		if n, err := cboring.ReadArrayLength(r); err != nil {
			return err
		} else if n != 2 {
			return fmt.Errorf("ipn endpoint expected array of 2 elements, not %d", n)
		}

		var numbers [2]string
		for i := range numbers {
			x, err := cboring.ReadUInt(r)
			if err != nil {
				return err
			}
			numbers[i] = strconv.FormatUint(x, 10)
		}
		*e = EndpointID{Scheme: SchemeIPN, SSP: numbers[0] + "." + numbers[1]}

	default:
		return newError(EndpointIDError, "unknown scheme %d", scheme)
	}

	return nil
}

// MarshalCbor writes a CBOR representation for this CreationTimestamp.
func (ct *CreationTimestamp) MarshalCbor(w io.Writer) error {
	if err := cboring.WriteArrayLength(2, w); err != nil {
		return err
	}

	for _, f := range []uint64{uint64(ct.Time), ct.SequenceNumber} {
		if err := cboring.WriteUInt(f, w); err != nil {
			return err
		}
	}

	return nil
}

// UnmarshalCbor reads a CBOR representation of a CreationTimestamp.
func (ct *CreationTimestamp) UnmarshalCbor(r io.Reader) error {
	if l, err := cboring.ReadArrayLength(r); err != nil {
		return err
	} else if l != 2 {
		return fmt.Errorf("expected array with length 2, got %d", l)
	}

	t, err := cboring.ReadUInt(r)
	if err != nil {
		return err
	}

	seq, err := cboring.ReadUInt(r)
	if err != nil {
		return err
	}

	*ct = NewCreationTimestamp(DtnTime(t), seq)
	return nil
}
