// SPDX-FileCopyrightText: 2018, 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func TestBundleControlFlagsHas(t *testing.T) {
	var cf BundleControlFlags = MustNotFragmented | StatusRequestDelivery

	if !cf.Has(MustNotFragmented) {
		t.Error("cf has no MustNotFragmented-flag even when it was set")
	}

	if cf.Has(IsFragment) {
		t.Error("cf has IsFragment-flag which was not set")
	}
}

func TestBundleControlFlagsCheckValid(t *testing.T) {
	tests := []struct {
		cf    BundleControlFlags
		valid bool
	}{
		{0, true},
		{IsFragment, true},
		{MustNotFragmented, true},
		{IsFragment | MustNotFragmented, false},
		{AdministrativeRecordPayload, true},
		{AdministrativeRecordPayload | RequestStatusTime, true},
		{AdministrativeRecordPayload | StatusRequestReception, false},
		{AdministrativeRecordPayload | StatusRequestDeletion, false},
		{StatusRequestReception | StatusRequestForward | StatusRequestDelivery | StatusRequestDeletion, true},
		{RequestUserApplicationAck | RequestStatusTime, true},
		{0x08, false},
		{0x10, false},
		{0x8000, false},
		{0x80000, true},
	}

	for _, test := range tests {
		if err := test.cf.CheckValid(); (err == nil) != test.valid {
			t.Errorf("BundleControlFlags validation failed: %#x resulted in %v", uint64(test.cf), err)
		} else if err != nil && !errors.Is(err, ErrBundleControlFlags) {
			t.Errorf("BundleControlFlags error has wrong kind: %v", err)
		}
	}
}

func TestBundleControlFlagsReservedBits(t *testing.T) {
	const reserved BundleControlFlags = 0xA218

	for i := 0; i < 64; i++ {
		cf := BundleControlFlags(1) << i
		expectErr := cf&reserved != 0

		if err := cf.CheckValid(); (err != nil) != expectErr {
			t.Fatalf("BundleControlFlags %#x: expected error %t, got %v", uint64(cf), expectErr, err)
		}
	}
}

func TestBundleControlFlagsFailFast(t *testing.T) {
	cf := IsFragment | MustNotFragmented | AdministrativeRecordPayload | StatusRequestForward | 0x08

	err := cf.CheckValid()
	if err == nil {
		t.Fatal("Invalid flags passed the check")
	}

	var e *Error
	if !errors.As(err, &e) || e.Msg != "Given flag contains reserved bits: 0x8" {
		t.Fatalf("First violation is not the reserved bit, but %v", err)
	}

	if errs := cf.Violations(); errs == nil {
		t.Fatal("Violations are empty")
	} else if n := len(errs.(*multierror.Error).Errors); n != 3 {
		t.Fatalf("Expected three violations, got %d: %v", n, errs)
	}

	if errs := (IsFragment | MustNotFragmented).Violations(); errs == nil {
		t.Fatal("Violations are empty")
	} else if e, ok := errs.(*multierror.Error).Errors[0].(*Error); !ok ||
		e.Msg != "Both 'bundle is a fragment' and 'bundle must not be fragmented' flags are set" {
		t.Fatalf("Unexpected violation: %v", errs)
	}
}

func TestBundleControlFlagsJson(t *testing.T) {
	tests := []struct {
		cf   BundleControlFlags
		json string
	}{
		{0, "null"},
		{IsFragment, `["IS_FRAGMENT"]`},
		{StatusRequestDelivery | MustNotFragmented, `["REQUESTED_DELIVERY_STATUS_REPORT","MUST_NOT_BE_FRAGMENTED"]`},
	}

	for _, test := range tests {
		data, err := json.Marshal(test.cf)
		if err != nil {
			t.Fatal(err)
		} else if string(data) != test.json {
			t.Fatalf("JSON of %d: expected %s, got %s", test.cf, test.json, data)
		}

		var cf BundleControlFlags
		if err := json.Unmarshal(data, &cf); err != nil {
			t.Fatal(err)
		} else if cf != test.cf {
			t.Fatalf("JSON decoding resulted in %d, expected %d", cf, test.cf)
		}
	}

	var cf BundleControlFlags
	if err := json.Unmarshal([]byte(`{}`), &cf); !errors.Is(err, ErrJSONDecode) {
		t.Fatalf("Invalid JSON resulted in %v", err)
	}
}
