// SPDX-FileCopyrightText: 2018, 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dtn7/cboring"
	log "github.com/sirupsen/logrus"
)

// marshalData returns the block-type-specific data field's content.
func marshalData(data CanonicalData) ([]byte, error) {
	var cm cboring.CborMarshaler

	switch d := data.(type) {
	case PayloadData:
		return d, nil
	case UnknownData:
		return d, nil
	case HopCountData:
		cm = &d
	case BundleAgeData:
		cm = &d
	case PreviousNodeData:
		cm = &d
	case DecodingErrorData:
		return nil, newError(CanonicalBlockError, "cannot marshal undecodable data: %v", d.Err)
	default:
		return nil, newError(CanonicalBlockError, "cannot marshal data %T", data)
	}

	buff := new(bytes.Buffer)
	if err := cboring.Marshal(cm, buff); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// unmarshalData creates the CanonicalData for a block type from its data
// field's content. Data which cannot be read results in DecodingErrorData.
func unmarshalData(blockType uint64, raw []byte) CanonicalData {
	var (
		data CanonicalData
		cm   cboring.CborMarshaler
	)

	switch blockType {
	case ExtBlockTypePayloadBlock:
		return PayloadData(raw)

	case ExtBlockTypeHopCountBlock:
		hcd := new(HopCountData)
		data, cm = hcd, hcd

	case ExtBlockTypeBundleAgeBlock:
		bad := new(BundleAgeData)
		data, cm = bad, bad

	case ExtBlockTypePreviousNodeBlock:
		pnd := new(PreviousNodeData)
		data, cm = pnd, pnd

	default:
		return UnknownData(raw)
	}

	if err := cboring.Unmarshal(cm, bytes.NewBuffer(raw)); err != nil {
		log.WithFields(log.Fields{
			"type":  blockType,
			"error": err,
		}).Debug("Failed to decode block data, keeping a decoding error")

		return DecodingErrorData{Err: wrapError(CBORDecodeError, err)}
	}

	// The variants are values, the pointers were only needed for decoding.
	switch d := data.(type) {
	case *HopCountData:
		return *d
	case *BundleAgeData:
		return *d
	case *PreviousNodeData:
		return *d
	}
	return data
}

// MarshalCbor writes this Canonical Block's CBOR representation. If a CRC type
// is set, the CRC value is calculated and stored within this block.
func (cb *CanonicalBlock) MarshalCbor(w io.Writer) error {
	var blockLen uint64 = 5
	if cb.CRC.HasCRC() {
		blockLen = 6
	}

	crcBuff := new(bytes.Buffer)
	if cb.CRC.HasCRC() {
		w = io.MultiWriter(w, crcBuff)
	}

	if err := cboring.WriteArrayLength(blockLen, w); err != nil {
		return err
	}

	fields := []uint64{cb.BlockType, cb.BlockNumber,
		uint64(cb.BlockControlFlags), uint64(cb.CRC.Type)}
	for _, f := range fields {
		if err := cboring.WriteUInt(f, w); err != nil {
			return err
		}
	}

	if data, err := marshalData(cb.data); err != nil {
		return fmt.Errorf("marshalling data failed: %w", err)
	} else if err := cboring.WriteByteString(data, w); err != nil {
		return err
	}

	if cb.CRC.HasCRC() {
		if crcVal, crcErr := calculateCRCBuff(crcBuff, cb.CRC.Type); crcErr != nil {
			return crcErr
		} else if err := cboring.WriteByteString(crcVal, w); err != nil {
			return err
		} else {
			cb.CRC.Value = crcVal
		}
	}

	return nil
}

// UnmarshalCbor creates this Canonical Block based on a CBOR representation.
// Undecodable block data is kept as DecodingErrorData, to be rejected by
// CheckValid.
func (cb *CanonicalBlock) UnmarshalCbor(r io.Reader) error {
	var blockLen uint64
	if bl, err := cboring.ReadArrayLength(r); err != nil {
		return err
	} else if bl != 5 && bl != 6 {
		return fmt.Errorf("expected array with length 5 or 6, got %d", bl)
	} else {
		blockLen = bl
	}

	// Pipe incoming bytes into a separate CRC buffer
	crcBuff := new(bytes.Buffer)
	if blockLen == 6 {
		// Replay array's start
		if err := cboring.WriteArrayLength(blockLen, crcBuff); err != nil {
			return err
		}
		r = io.TeeReader(r, crcBuff)
	}

	var crcType uint64
	for _, f := range []*uint64{&cb.BlockType, &cb.BlockNumber, nil, &crcType} {
		x, err := cboring.ReadUInt(r)
		if err != nil {
			return err
		}

		if f != nil {
			*f = x
		} else if x > uint64(^BlockControlFlags(0)) {
			return fmt.Errorf("block control flags %#x exceed 8 bits", x)
		} else {
			cb.BlockControlFlags = BlockControlFlags(x)
		}
	}
	cb.CRC = CRC{Type: CRCType(crcType)}

	if raw, err := cboring.ReadByteString(r); err != nil {
		return err
	} else {
		cb.data = unmarshalData(cb.BlockType, raw)
	}

	if blockLen == 6 {
		if crcCalc, crcErr := calculateCRCBuff(crcBuff, cb.CRC.Type); crcErr != nil {
			return crcErr
		} else if crcVal, err := cboring.ReadByteString(r); err != nil {
			return err
		} else if !bytes.Equal(crcCalc, crcVal) {
			return newError(CRCError, "invalid CRC value: %x instead of expected %x", crcVal, crcCalc)
		} else {
			cb.CRC.Value = crcVal
		}
	} else if cb.CRC.HasCRC() {
		return newError(CRCError, "CRC type %v without a CRC value", cb.CRC.Type)
	}

	return nil
}

// MarshalJSON writes a JSON object for this Canonical Block.
func (cb CanonicalBlock) MarshalJSON() ([]byte, error) {
	var dataField interface{}

	if cb.data == nil {
		return nil, newError(CanonicalBlockError, "block has no data")
	} else if _, ok := cb.data.(json.Marshaler); ok {
		dataField = cb.data
	} else if data, err := marshalData(cb.data); err != nil {
		return nil, err
	} else {
		dataField = data
	}

	return json.Marshal(&struct {
		BlockNumber   uint64            `json:"blockNumber"`
		BlockTypeCode uint64            `json:"blockTypeCode"`
		BlockType     string            `json:"blockType"`
		ControlFlags  BlockControlFlags `json:"blockControlFlags"`
		Data          interface{}       `json:"data"`
	}{
		BlockNumber:   cb.BlockNumber,
		BlockType:     cb.data.BlockTypeName(),
		BlockTypeCode: cb.BlockType,
		ControlFlags:  cb.BlockControlFlags,
		Data:          dataField,
	})
}
