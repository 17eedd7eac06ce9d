// SPDX-FileCopyrightText: 2019, 2020, 2021 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dtn7/cboring"
)

// BundleStatusItem is an element of a StatusReport's bundle status information.
// Its time is only present for an asserted item of a Bundle which requested
// status times.
type BundleStatusItem struct {
	Asserted        bool
	Time            DtnTime
	StatusRequested bool
}

// NewBundleStatusItem returns a BundleStatusItem without a status time.
func NewBundleStatusItem(asserted bool) BundleStatusItem {
	return BundleStatusItem{Asserted: asserted, Time: DtnTimeEpoch}
}

// NewTimeReportingBundleStatusItem returns an asserted BundleStatusItem, reporting its time.
func NewTimeReportingBundleStatusItem(time DtnTime) BundleStatusItem {
	return BundleStatusItem{Asserted: true, Time: time, StatusRequested: true}
}

func (bsi *BundleStatusItem) hasTime() bool {
	return bsi.Asserted && bsi.StatusRequested
}

func (bsi *BundleStatusItem) MarshalCbor(w io.Writer) error {
	var arrLen uint64 = 1
	if bsi.hasTime() {
		arrLen = 2
	}

	if err := cboring.WriteArrayLength(arrLen, w); err != nil {
		return err
	}
	if err := cboring.WriteBoolean(bsi.Asserted, w); err != nil {
		return err
	}
	if bsi.hasTime() {
		return cboring.WriteUInt(uint64(bsi.Time), w)
	}
	return nil
}

func (bsi *BundleStatusItem) UnmarshalCbor(r io.Reader) error {
	arrLen, err := cboring.ReadArrayLength(r)
	if err != nil {
		return err
	} else if arrLen != 1 && arrLen != 2 {
		return fmt.Errorf("expected bundle status item array of length 1 or 2, got %d", arrLen)
	}

	if bsi.Asserted, err = cboring.ReadBoolean(r); err != nil {
		return err
	}

	bsi.Time, bsi.StatusRequested = DtnTimeEpoch, arrLen == 2
	if bsi.StatusRequested {
		t, err := cboring.ReadUInt(r)
		if err != nil {
			return err
		}
		bsi.Time = DtnTime(t)
	}
	return nil
}

func (bsi BundleStatusItem) String() string {
	if bsi.hasTime() {
		return fmt.Sprintf("BundleStatusItem(%t, %v)", bsi.Asserted, bsi.Time)
	}
	return fmt.Sprintf("BundleStatusItem(%t)", bsi.Asserted)
}

// StatusReportReason is a status report's reason code, section 6.1.1.
type StatusReportReason uint64

// Status report reason codes, in the order of their numeric values.
const (
	NoInformation StatusReportReason = iota
	LifetimeExpired
	ForwardUnidirectionalLink
	TransmissionCanceled
	DepletedStorage
	DestEndpointUnintelligible
	NoRouteToDestination
	NoNextNodeContact
	BlockUnintelligible
	HopLimitExceeded
	TrafficPared
	BlockUnsupported
)

var statusReportReasonNames = []string{
	"No additional information",
	"Lifetime expired",
	"Forwarded over unidirectional link",
	"Transmission canceled",
	"Depleted storage",
	"Destination endpoint ID unintelligible",
	"No known route to destination from here",
	"No timely contact with next node on route",
	"Block unintelligible",
	"Hop limit exceeded",
	"Traffic pared",
	"Block unsupported",
}

func (srr StatusReportReason) String() string {
	if srr < StatusReportReason(len(statusReportReasonNames)) {
		return statusReportReasonNames[srr]
	}
	return "unknown"
}

// StatusInformationPos is the index of a BundleStatusItem within a StatusReport.
type StatusInformationPos int

// Positions of the four mandatory bundle status items.
const (
	ReceivedBundle StatusInformationPos = iota
	ForwardedBundle
	DeliveredBundle
	DeletedBundle

	// maxStatusInformationPos is the amount of status items in each StatusReport.
	maxStatusInformationPos int = 4
)

func (sip StatusInformationPos) String() string {
	switch sip {
	case ReceivedBundle:
		return "received bundle"
	case ForwardedBundle:
		return "forwarded bundle"
	case DeliveredBundle:
		return "delivered bundle"
	case DeletedBundle:
		return "deleted bundle"
	default:
		return "unknown"
	}
}

// StatusReport is the bundle status report administrative record, reporting
// on the Bundle identified by RefBundle.
type StatusReport struct {
	StatusInformation []BundleStatusItem
	ReportReason      StatusReportReason
	RefBundle         BundleID
}

// NewStatusReport asserts one status item for the given Bundle. The item's
// time is only reported if the Bundle requested status times.
func NewStatusReport(bndl Bundle, statusItem StatusInformationPos, reason StatusReportReason, time DtnTime) *StatusReport {
	report := &StatusReport{
		StatusInformation: make([]BundleStatusItem, maxStatusInformationPos),
		ReportReason:      reason,
		RefBundle:         bndl.ID(),
	}

	for i := range report.StatusInformation {
		switch {
		case StatusInformationPos(i) != statusItem:
			report.StatusInformation[i] = NewBundleStatusItem(false)
		case bndl.PrimaryBlock.BundleControlFlags.Has(RequestStatusTime):
			report.StatusInformation[i] = NewTimeReportingBundleStatusItem(time)
		default:
			report.StatusInformation[i] = NewBundleStatusItem(true)
		}
	}
	return report
}

// StatusInformations returns each asserted StatusInformationPos.
func (sr StatusReport) StatusInformations() (sips []StatusInformationPos) {
	for i, si := range sr.StatusInformation {
		if si.Asserted {
			sips = append(sips, StatusInformationPos(i))
		}
	}
	return
}

func (sr *StatusReport) RecordTypeCode() uint64 {
	return AdminRecordTypeStatusReport
}

func (sr *StatusReport) MarshalCbor(w io.Writer) error {
	if err := cboring.WriteArrayLength(2+sr.RefBundle.cborLength(), w); err != nil {
		return err
	}

	if err := cboring.WriteArrayLength(uint64(len(sr.StatusInformation)), w); err != nil {
		return err
	}
	for i := range sr.StatusInformation {
		if err := cboring.Marshal(&sr.StatusInformation[i], w); err != nil {
			return fmt.Errorf("BundleStatusItem %d failed: %w", i, err)
		}
	}

	if err := cboring.WriteUInt(uint64(sr.ReportReason), w); err != nil {
		return err
	}

	return cboring.Marshal(&sr.RefBundle, w)
}

func (sr *StatusReport) UnmarshalCbor(r io.Reader) error {
	switch n, err := cboring.ReadArrayLength(r); {
	case err != nil:
		return err
	case n == 4:
		sr.RefBundle.IsFragment = false
	case n == 6:
		sr.RefBundle.IsFragment = true
	default:
		return fmt.Errorf("expected status report array of length 4 or 6, got %d", n)
	}

	n, err := cboring.ReadArrayLength(r)
	if err != nil {
		return err
	} else if n != uint64(maxStatusInformationPos) {
		return fmt.Errorf("expected %d bundle status items, got %d", maxStatusInformationPos, n)
	}
	sr.StatusInformation = make([]BundleStatusItem, n)
	for i := range sr.StatusInformation {
		if err := cboring.Unmarshal(&sr.StatusInformation[i], r); err != nil {
			return fmt.Errorf("BundleStatusItem %d failed: %w", i, err)
		}
	}

	reason, err := cboring.ReadUInt(r)
	if err != nil {
		return err
	}
	sr.ReportReason = StatusReportReason(reason)

	return cboring.Unmarshal(&sr.RefBundle, r)
}

func (sr StatusReport) String() string {
	var items []string
	for i, si := range sr.StatusInformation {
		switch {
		case !si.Asserted:
		case si.hasTime():
			items = append(items, fmt.Sprintf("%v %v", StatusInformationPos(i), si.Time))
		default:
			items = append(items, StatusInformationPos(i).String())
		}
	}

	return fmt.Sprintf("StatusReport([%s], %v, %v)", strings.Join(items, ", "), sr.ReportReason, sr.RefBundle)
}

// MarshalJSON creates a JSON object with the asserted status items, the reason and the referenced Bundle.
func (sr StatusReport) MarshalJSON() ([]byte, error) {
	items := make(map[string]string)
	for i, si := range sr.StatusInformation {
		switch {
		case !si.Asserted:
		case si.hasTime():
			items[StatusInformationPos(i).String()] = si.Time.String()
		default:
			items[StatusInformationPos(i).String()] = ""
		}
	}

	return json.Marshal(&struct {
		StatusInformation map[string]string `json:"statusInformation"`
		Reason            string            `json:"reason"`
		RefBundle         string            `json:"refBundle"`
	}{
		StatusInformation: items,
		Reason:            sr.ReportReason.String(),
		RefBundle:         sr.RefBundle.String(),
	})
}
