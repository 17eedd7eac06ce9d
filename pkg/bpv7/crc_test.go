// SPDX-FileCopyrightText: 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"bytes"
	"errors"
	"testing"
)

func TestCRCCheckValid(t *testing.T) {
	tests := []struct {
		crc   CRC
		valid bool
	}{
		{NoCRC(), true},
		{CRC{Type: CRCNo, Value: []byte{0x00}}, false},
		{CRC{Type: CRC16}, false},
		{CRC{Type: CRC16, Value: []byte{0x00, 0x00}}, true},
		{CRC{Type: CRC16, Value: []byte{0x00, 0x00, 0x00, 0x00}}, false},
		{CRC{Type: CRC32}, false},
		{CRC{Type: CRC32, Value: []byte{0x00, 0x00}}, false},
		{CRC{Type: CRC32, Value: []byte{0x00, 0x00, 0x00, 0x00}}, true},
		{CRC{Type: 3, Value: []byte{0x00}}, false},
	}

	for _, test := range tests {
		if err := test.crc.CheckValid(); (err == nil) != test.valid {
			t.Errorf("CRC %v %x resulted in %v", test.crc.Type, test.crc.Value, err)
		} else if err != nil && !errors.Is(err, ErrCRC) {
			t.Errorf("CRC error has wrong kind: %v", err)
		}
	}
}

func TestCRCCalculate(t *testing.T) {
	data := []byte("123456789")

	if v, err := (CRC{Type: CRCNo}).Calculate(data); err != nil || v != nil {
		t.Fatalf("No CRC resulted in %x, %v", v, err)
	}

	if v, err := (CRC{Type: CRC16}).Calculate(data); err != nil {
		t.Fatal(err)
	} else if len(v) != 2 {
		t.Fatalf("CRC16 value has %d bytes", len(v))
	}

	if v, err := (CRC{Type: CRC32}).Calculate(data); err != nil {
		t.Fatal(err)
	} else if !bytes.Equal(v, []byte{0xE3, 0x06, 0x92, 0x83}) {
		t.Fatalf("CRC32C value is %x", v)
	}

	if _, err := (CRC{Type: 42}).Calculate(data); !errors.Is(err, ErrCRC) {
		t.Fatalf("Unknown CRC type resulted in %v", err)
	}
}

func TestCalculateCRCBuff(t *testing.T) {
	for _, crcType := range []CRCType{CRC16, CRC32} {
		buff := bytes.NewBufferString("hello")

		v1, err := calculateCRCBuff(buff, crcType)
		if err != nil {
			t.Fatal(err)
		}

		n, _ := crcType.length()
		zeroed := append([]byte("hello"), byte(0x40|n))
		zeroed = append(zeroed, make([]byte, n)...)

		if v2, err := (CRC{Type: crcType}).Calculate(zeroed); err != nil {
			t.Fatal(err)
		} else if !bytes.Equal(v1, v2) {
			t.Fatalf("CRC %v values differ: %x != %x", crcType, v1, v2)
		}
	}
}
