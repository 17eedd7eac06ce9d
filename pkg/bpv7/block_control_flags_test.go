// SPDX-FileCopyrightText: 2018, 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func TestBlockControlFlagsHas(t *testing.T) {
	var cf = ReplicateBlock | DeleteBundle

	if !cf.Has(ReplicateBlock) {
		t.Error("cf has no ReplicateBlock-flag even when it was set")
	}

	if cf.Has(RemoveBlock) {
		t.Error("cf has RemoveBlock-flag which was not set")
	}
}

func TestBlockControlFlagsCheckValid(t *testing.T) {
	tests := []struct {
		cf    BlockControlFlags
		valid bool
	}{
		{0, true},
		{ReplicateBlock, true},
		{ReplicateBlock | DeleteBundle, true},
		{RemoveBlock, true},
		{ReplicateBlock | StatusReportBlock | DeleteBundle | RemoveBlock, true},
		{0x08, true},
		{ReplicateBlock | 0x80, false},
		{0x40 | 0x20, false},
		{0xFF, false},
	}

	for _, test := range tests {
		if err := test.cf.CheckValid(); (err == nil) != test.valid {
			t.Errorf("BlockControlFlags validation failed: %v resulted in %v", test.cf, err)
		} else if err != nil && !errors.Is(err, ErrBlockControlFlags) {
			t.Errorf("BlockControlFlags error has wrong kind: %v", err)
		}
	}
}

func TestBlockControlFlagsReservedBits(t *testing.T) {
	for i := 0; i <= 0xFF; i++ {
		cf := BlockControlFlags(i)
		reserved := cf&0xE0 != 0

		if err := cf.CheckValid(); (err != nil) != reserved {
			t.Fatalf("BlockControlFlags %#x: reserved %t, but got %v", i, reserved, err)
		}

		if err := cf.Violations(); (err != nil) != reserved {
			t.Fatalf("BlockControlFlags %#x: reserved %t, but got violations %v", i, reserved, err)
		} else if err != nil {
			if n := len(err.(*multierror.Error).Errors); n != 1 {
				t.Fatalf("BlockControlFlags %#x: expected one violation, got %d", i, n)
			}
		}
	}
}

func TestBlockControlFlagsStrings(t *testing.T) {
	tests := []struct {
		cf   BlockControlFlags
		strs []string
	}{
		{0, nil},
		{ReplicateBlock, []string{"REPLICATE_BLOCK"}},
		{DeleteBundle | RemoveBlock, []string{"DELETE_BUNDLE", "REMOVE_BLOCK"}},
	}

	for _, test := range tests {
		if strs := test.cf.Strings(); !reflect.DeepEqual(strs, test.strs) {
			t.Fatalf("Strings of %d: expected %v, got %v", test.cf, test.strs, strs)
		}
	}
}

func TestBlockControlFlagsJson(t *testing.T) {
	tests := []struct {
		cf   BlockControlFlags
		json string
	}{
		{0, "null"},
		{StatusReportBlock, `["REQUEST_STATUS_REPORT"]`},
		{ReplicateBlock | DeleteBundle, `["DELETE_BUNDLE","REPLICATE_BLOCK"]`},
	}

	for _, test := range tests {
		data, err := json.Marshal(test.cf)
		if err != nil {
			t.Fatal(err)
		} else if string(data) != test.json {
			t.Fatalf("JSON of %d: expected %s, got %s", test.cf, test.json, data)
		}

		var cf BlockControlFlags
		if err := json.Unmarshal(data, &cf); err != nil {
			t.Fatal(err)
		} else if cf != test.cf {
			t.Fatalf("JSON decoding resulted in %d, expected %d", cf, test.cf)
		}
	}

	var cf BlockControlFlags
	if err := json.Unmarshal([]byte(`["NOT_A_FLAG"]`), &cf); !errors.Is(err, ErrJSONDecode) {
		t.Fatalf("Unknown flag resulted in %v", err)
	}
}
