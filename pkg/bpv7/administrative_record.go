// SPDX-FileCopyrightText: 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"bytes"
	"fmt"

	"github.com/dtn7/cboring"
)

// AdminRecordTypeStatusReport is the administrative record type code for a status report.
const AdminRecordTypeStatusReport uint64 = 1

// AdministrativeRecord is the payload of a Bundle with the
// AdministrativeRecordPayload flag, e.g., a StatusReport.
type AdministrativeRecord interface {
	cboring.CborMarshaler

	// RecordTypeCode returns this AdministrativeRecord's type code.
	RecordTypeCode() uint64
}

// MarshalAdministrativeRecord wraps an AdministrativeRecord in a CBOR array
// of its record type code and its representation.
func MarshalAdministrativeRecord(ar AdministrativeRecord) ([]byte, error) {
	buff := new(bytes.Buffer)

	if err := cboring.WriteArrayLength(2, buff); err != nil {
		return nil, err
	}
	if err := cboring.WriteUInt(ar.RecordTypeCode(), buff); err != nil {
		return nil, err
	}
	if err := cboring.Marshal(ar, buff); err != nil {
		return nil, fmt.Errorf("marshalling administrative record %d failed: %w", ar.RecordTypeCode(), err)
	}

	return buff.Bytes(), nil
}

// UnmarshalAdministrativeRecord reads an AdministrativeRecord from its CBOR
// array. Status reports are the only known record type.
func UnmarshalAdministrativeRecord(data []byte) (AdministrativeRecord, error) {
	r := bytes.NewReader(data)

	if n, err := cboring.ReadArrayLength(r); err != nil {
		return nil, wrapError(CBORDecodeError, err)
	} else if n != 2 {
		return nil, newError(CBORDecodeError, "expected administrative record array of length 2, got %d", n)
	}

	typeCode, err := cboring.ReadUInt(r)
	if err != nil {
		return nil, wrapError(CBORDecodeError, err)
	}

	var ar AdministrativeRecord
	switch typeCode {
	case AdminRecordTypeStatusReport:
		ar = new(StatusReport)
	default:
		return nil, newError(BundleError, "unknown administrative record type code %d", typeCode)
	}

	if err := cboring.Unmarshal(ar, r); err != nil {
		return nil, wrapError(CBORDecodeError, err)
	} else if r.Len() > 0 {
		return nil, newError(CBORDecodeError, "%d trailing bytes after administrative record", r.Len())
	}
	return ar, nil
}

// AdministrativeRecord decodes this Bundle's payload as an AdministrativeRecord.
func (b *Bundle) AdministrativeRecord() (AdministrativeRecord, error) {
	if !b.IsAdministrativeRecord() {
		return nil, newError(BundleError, "Bundle has no administrative record payload")
	}

	pb, err := b.PayloadBlock()
	if err != nil {
		return nil, err
	}

	data, _ := pb.PayloadData()
	return UnmarshalAdministrativeRecord(data)
}
