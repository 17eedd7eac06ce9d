// SPDX-FileCopyrightText: 2018, 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/dtn7/cboring"
)

func TestEndpointInvalid(t *testing.T) {
	tests := []string{
		"foo:bar",
		"dtn",
		"dtn:",
		"dtn:foo",
		"dtn://",
		"dtn://foo",
		"ipn:",
		"ipn:1",
		"ipn:0.1",
		"ipn:1.0",
		"ipn:-1.2",
		"ipn:1.2.3",
	}

	for _, uri := range tests {
		if _, err := NewEndpointID(uri); err == nil {
			t.Fatalf("%s does not resulted in an error", uri)
		} else if !errors.Is(err, ErrEndpointID) {
			t.Fatalf("%s resulted in an error of a wrong kind: %v", uri, err)
		}
	}
}

func TestEndpointCheckValid(t *testing.T) {
	tests := []struct {
		ep    EndpointID
		valid bool
	}{
		{EndpointID{}, false},
		{DtnNone(), true},
		{EndpointID{Scheme: SchemeDTN, SSP: "//foo/"}, true},
		{EndpointID{Scheme: SchemeDTN, SSP: "foo"}, false},
		{EndpointID{Scheme: SchemeIPN, SSP: "0.0"}, false},
		{EndpointID{Scheme: SchemeIPN, SSP: "0.1"}, false},
		{EndpointID{Scheme: SchemeIPN, SSP: "1.0"}, false},
		{EndpointID{Scheme: SchemeIPN, SSP: "1.1"}, true},
		{EndpointID{Scheme: 23, SSP: "1.1"}, false},
	}

	for _, test := range tests {
		if err := test.ep.CheckValid(); (err == nil) != test.valid {
			t.Fatalf("Endpoint ID %v resulted in error: %v", test.ep, err)
		}
	}
}

func TestEndpointNull(t *testing.T) {
	if !MustNewEndpointID("dtn:none").IsNull() {
		t.Fatal("dtn:none is not the null endpoint")
	}

	for _, uri := range []string{"dtn://none/", "ipn:1.1"} {
		if MustNewEndpointID(uri).IsNull() {
			t.Fatalf("%s is the null endpoint", uri)
		}
	}

	if MustNewEndpointID("dtn://foo/bar") != (EndpointID{Scheme: SchemeDTN, SSP: "//foo/bar"}) {
		t.Fatal("Endpoint IDs are not compared by value")
	}
}

func TestMustNewEndpointIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustNewEndpointID did not panic")
		}
	}()

	_ = MustNewEndpointID("nope")
}

func TestEndpointCbor(t *testing.T) {
	tests := []struct {
		eid  string
		cbor []byte
	}{
		{"dtn:none", []byte{0x82, 0x01, 0x00}},
		{"dtn://foo/", []byte{0x82, 0x01, 0x66, 0x2F, 0x2F, 0x66, 0x6F, 0x6F, 0x2F}},
		{"dtn://foo/bar", []byte{0x82, 0x01, 0x69, 0x2F, 0x2F, 0x66, 0x6F, 0x6F, 0x2F, 0x62, 0x61, 0x72}},
		{"ipn:1.1", []byte{0x82, 0x02, 0x82, 0x01, 0x01}},
		{"ipn:23.42", []byte{0x82, 0x02, 0x82, 0x17, 0x18, 0x2A}},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("marshal-%s", test.eid), func(t *testing.T) {
			e := MustNewEndpointID(test.eid)

			buff := new(bytes.Buffer)
			if err := cboring.Marshal(&e, buff); err != nil {
				t.Fatalf("Marshaling %s failed: %v", test.eid, err)
			}

			if data := buff.Bytes(); !reflect.DeepEqual(data, test.cbor) {
				t.Fatalf("CBOR differs: %x != %x", data, test.cbor)
			}
		})

		t.Run(fmt.Sprintf("unmarshal-%s", test.eid), func(t *testing.T) {
			e := EndpointID{}

			buff := bytes.NewBuffer(test.cbor)
			if err := cboring.Unmarshal(&e, buff); err != nil {
				t.Fatalf("Unmarshaling %s failed: %v", test.eid, err)
			}

			if e.String() != test.eid {
				t.Fatalf("EID differs: %s != %s", e.String(), test.eid)
			}
		})
	}
}

func TestEndpointCborInvalidDtnNone(t *testing.T) {
	tests := [][]byte{
		{0x82, 0x01, 0x01},
		{0x82, 0x01, 0x17},
		{0x82, 0x01, 0x18, 0x2A},
	}

	for _, data := range tests {
		var e EndpointID
		if err := cboring.Unmarshal(&e, bytes.NewBuffer(data)); !errors.Is(err, ErrCBORDecode) {
			t.Fatalf("Unmarshaling %x resulted in %v, %v", data, e, err)
		}
	}
}

func TestEndpointAuthority(t *testing.T) {
	tests := []struct {
		eid       string
		authority string
	}{
		{"dtn:none", "none"},
		{"dtn://foobar/", "foobar"},
		{"dtn://foo/bar", "foo"},
		{"dtn://foo/bar/", "foo"},
		{"ipn:1.1", "1"},
		{"ipn:23.42", "23"},
	}

	for _, test := range tests {
		if authority := MustNewEndpointID(test.eid).Authority(); test.authority != authority {
			t.Fatalf("Authority of %s: expected %s, got %s", test.eid, test.authority, authority)
		}
	}
}

func TestEndpointJson(t *testing.T) {
	e := MustNewEndpointID("dtn://foo/bar")

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	} else if string(data) != `"dtn://foo/bar"` {
		t.Fatalf("JSON differs: %s", data)
	}

	var e2 EndpointID
	if err := json.Unmarshal(data, &e2); err != nil {
		t.Fatal(err)
	} else if e != e2 {
		t.Fatalf("Endpoint IDs differ: %v != %v", e, e2)
	}

	if err := json.Unmarshal([]byte(`"foo:bar"`), &e2); !errors.Is(err, ErrJSONDecode) {
		t.Fatalf("Invalid Endpoint ID resulted in %v", err)
	} else if !errors.Is(err, ErrEndpointID) {
		t.Fatalf("Invalid Endpoint ID does not wrap the cause: %v", err)
	}
}
