// SPDX-FileCopyrightText: 2018, 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"strings"
)

// BundleControlFlags is an uint which represents the Bundle Processing
// Control Flags as specified in section 4.2.3.
type BundleControlFlags uint64

const (
	// IsFragment indicates this bundle is a fragment.
	IsFragment BundleControlFlags = 0x000001

	// AdministrativeRecordPayload indicates the payload is an administrative record.
	AdministrativeRecordPayload BundleControlFlags = 0x000002

	// MustNotFragmented forbids bundle fragmentation.
	MustNotFragmented BundleControlFlags = 0x000004

	// RequestUserApplicationAck requests an acknowledgement from the application agent.
	RequestUserApplicationAck BundleControlFlags = 0x000020

	// RequestStatusTime requests a status time in all status reports.
	RequestStatusTime BundleControlFlags = 0x000040

	// StatusRequestReception requests a bundle reception status report.
	StatusRequestReception BundleControlFlags = 0x004000

	// StatusRequestForward requests a bundle forwarding status report.
	StatusRequestForward BundleControlFlags = 0x010000

	// StatusRequestDelivery requests a bundle delivery status report.
	StatusRequestDelivery BundleControlFlags = 0x020000

	// StatusRequestDeletion requests a bundle deletion status report.
	StatusRequestDeletion BundleControlFlags = 0x040000

	// BundleReservedFields masks the reserved bits. Named flags within this mask, as StatusRequestReception, stay allowed.
	BundleReservedFields BundleControlFlags = 0x00E218

	// statusRequests masks all four status report request flags.
	statusRequests = StatusRequestReception | StatusRequestForward |
		StatusRequestDelivery | StatusRequestDeletion

	bundleNamedFields = IsFragment | AdministrativeRecordPayload | MustNotFragmented |
		RequestUserApplicationAck | RequestStatusTime | statusRequests
)

var bundleFlagTexts = []flagText[BundleControlFlags]{
	{StatusRequestDeletion, "REQUESTED_DELETION_STATUS_REPORT"},
	{StatusRequestDelivery, "REQUESTED_DELIVERY_STATUS_REPORT"},
	{StatusRequestForward, "REQUESTED_FORWARD_STATUS_REPORT"},
	{StatusRequestReception, "REQUESTED_RECEPTION_STATUS_REPORT"},
	{RequestStatusTime, "REQUESTED_TIME_IN_STATUS_REPORT"},
	{RequestUserApplicationAck, "REQUESTED_APPLICATION_ACK"},
	{MustNotFragmented, "MUST_NOT_BE_FRAGMENTED"},
	{AdministrativeRecordPayload, "ADMINISTRATIVE_PAYLOAD"},
	{IsFragment, "IS_FRAGMENT"},
}

// Has returns true if a given flag or mask of flags is set.
func (bcf BundleControlFlags) Has(flag BundleControlFlags) bool {
	return (bcf & flag) != 0
}

func (bcf BundleControlFlags) validate(c *checker) {
	validateFlags(c, bcf, BundleReservedFields, bundleNamedFields, BundleControlFlagsError,
		flagRule[BundleControlFlags]{
			violated: func(f BundleControlFlags) bool { return f.Has(IsFragment) && f.Has(MustNotFragmented) },
			msg:      "Both 'bundle is a fragment' and 'bundle must not be fragmented' flags are set",
		},
		flagRule[BundleControlFlags]{
			violated: func(f BundleControlFlags) bool { return f.Has(AdministrativeRecordPayload) && f.Has(statusRequests) },
			msg:      "\"payload is administrative record => no status report request flags\" failed",
		})
}

// CheckValid returns the first violation: reserved bits, fragmentation
// conflict, administrative record with status report requests.
func (bcf BundleControlFlags) CheckValid() error {
	return checkFirst(bcf)
}

// Violations returns all violations of these flags.
func (bcf BundleControlFlags) Violations() error {
	return checkAll(bcf)
}

// Strings returns an array of all flags as a string representation.
func (bcf BundleControlFlags) Strings() []string {
	return flagStrings(bcf, bundleFlagTexts)
}

// MarshalJSON creates a JSON array of control flags.
func (bcf BundleControlFlags) MarshalJSON() ([]byte, error) {
	return json.Marshal(bcf.Strings())
}

// UnmarshalJSON reads a JSON array of control flags, as created by MarshalJSON.
func (bcf *BundleControlFlags) UnmarshalJSON(data []byte) error {
	var fields []string
	if err := json.Unmarshal(data, &fields); err != nil {
		return wrapError(JSONDecodeError, err)
	}

	flags, err := parseFlagStrings(fields, bundleFlagTexts, JSONDecodeError)
	if err != nil {
		return err
	}

	*bcf = flags
	return nil
}

func (bcf BundleControlFlags) String() string {
	return strings.Join(bcf.Strings(), ",")
}
