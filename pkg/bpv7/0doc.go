// SPDX-FileCopyrightText: 2019, 2020, 2021 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package bpv7 provides the data model of Bundles as defined in the Bundle
// Protocol Version 7, RFC 9171. This includes the primary block, canonical
// blocks with their block-type-specific data, control flags, endpoints,
// creation timestamps and their validation.
//
// The easiest way to create new Bundles is to use the BundleBuilder.
//
//	bundle, err := bpv7.Builder().
//	  CRC(bpv7.CRC32).
//	  Source("dtn://src/").
//	  Destination("dtn://dest/").
//	  CreationTimestampNow().
//	  Lifetime(time.Hour).
//	  HopCountBlock(64).
//	  PayloadBlock([]byte("hello world!")).
//	  Build()
//
// Each part of a Bundle implements Valid. CheckValid returns the first
// violation, while Violations collects all of them.
//
// Creation timestamps are drawn from a Clock. The package's DefaultClock is a
// Sequencer, which numbers all timestamps within the same millisecond.
//
// Both serializing and deserializing bundles into the CBOR is supported.
//
//	// An existing Bundle b1 is serialized. The new bundle b2 is created
//	// from this. A common bytes.Buffer will be used.
//	buff := new(bytes.Buffer)
//	err1 := b1.WriteBundle(buff)
//	b2, err2 := bpv7.ParseBundle(buff)
package bpv7
