// SPDX-FileCopyrightText: 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock always hands out the same timestamp.
type fixedClock CreationTimestamp

func (fc fixedClock) Now() CreationTimestamp {
	return CreationTimestamp(fc)
}

func TestBundleBuilderSimple(t *testing.T) {
	bldr := Builder().
		Clock(fixedClock(NewCreationTimestamp(1000, 23))).
		CRC(CRC32).
		Source("dtn://myself/").
		Destination("dtn://dest/").
		CreationTimestampNow().
		Lifetime("10m").
		HopCountBlock(64).
		BundleAgeBlock(0).
		PayloadBlock([]byte("hello world!"))
	require.NoError(t, bldr.Error())

	b, err := bldr.Build()
	require.NoError(t, err)

	pb := b.PrimaryBlock
	assert.Equal(t, uint64(7), pb.Version)
	assert.Equal(t, MustNewEndpointID("dtn://myself/"), pb.SourceNode)
	assert.Equal(t, MustNewEndpointID("dtn://dest/"), pb.Destination)
	assert.Equal(t, pb.SourceNode, pb.ReportTo)
	assert.Equal(t, NewCreationTimestamp(1000, 23), pb.CreationTimestamp)
	assert.Equal(t, uint64(10*60*1000), pb.Lifetime)
	assert.Equal(t, CRC32, pb.CRC.Type)
	assert.Len(t, pb.CRC.Value, 4)

	require.Len(t, b.CanonicalBlocks, 3)

	expected := []struct {
		blockType   uint64
		blockNumber uint64
	}{
		{ExtBlockTypeHopCountBlock, 2},
		{ExtBlockTypeBundleAgeBlock, 3},
		{ExtBlockTypePayloadBlock, 1},
	}
	for i, e := range expected {
		cb := b.CanonicalBlocks[i]
		assert.Equal(t, e.blockType, cb.BlockType)
		assert.Equal(t, e.blockNumber, cb.BlockNumber)
		assert.Equal(t, CRC32, cb.CRC.Type)
		assert.Len(t, cb.CRC.Value, 4)
	}

	hcd, ok := b.CanonicalBlocks[0].HopCount()
	require.True(t, ok)
	assert.Equal(t, HopCountData{Limit: 64}, hcd)

	payload, ok := b.CanonicalBlocks[2].PayloadData()
	require.True(t, ok)
	assert.Equal(t, []byte("hello world!"), payload)
}

func TestBundleBuilderPayloadFirst(t *testing.T) {
	b, err := Builder().
		Source(MustNewEndpointID("dtn://src/")).
		Destination(MustNewEndpointID("dtn://dst/")).
		ReportTo("dtn://rprt/").
		CreationTimestampTime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).
		Lifetime(time.Hour).
		PayloadBlock([]byte("foo"), DeleteBundle).
		PreviousNodeBlock("dtn://prev/").
		Build()
	require.NoError(t, err)

	assert.Equal(t, MustNewEndpointID("dtn://rprt/"), b.PrimaryBlock.ReportTo)
	assert.Equal(t, DtnTime(631152000000), b.PrimaryBlock.CreationTimestamp.Time)
	assert.Equal(t, uint64(3600000), b.PrimaryBlock.Lifetime)

	require.Len(t, b.CanonicalBlocks, 2)
	assert.Equal(t, ExtBlockTypePreviousNodeBlock, b.CanonicalBlocks[0].BlockType)
	assert.Equal(t, uint64(2), b.CanonicalBlocks[0].BlockNumber)
	assert.Equal(t, ExtBlockTypePayloadBlock, b.CanonicalBlocks[1].BlockType)
	assert.Equal(t, DeleteBundle, b.CanonicalBlocks[1].BlockControlFlags)

	eid, ok := b.CanonicalBlocks[0].PreviousNode()
	require.True(t, ok)
	assert.Equal(t, MustNewEndpointID("dtn://prev/"), eid)
}

func TestBundleBuilderEpoch(t *testing.T) {
	_, err := Builder().
		Source("dtn://src/").
		Destination("dtn://dst/").
		CreationTimestampEpoch().
		Lifetime(1000).
		PayloadBlock(nil).
		Build()
	assert.True(t, errors.Is(err, ErrBundle), "missing Bundle Age Block resulted in %v", err)

	b, err := Builder().
		Source("dtn://src/").
		Destination("dtn://dst/").
		CreationTimestampEpoch().
		Lifetime(1000).
		BundleAgeBlock(23 * time.Millisecond).
		PayloadBlock(nil).
		Build()
	require.NoError(t, err)

	age, ok := b.CanonicalBlocks[0].BundleAge()
	require.True(t, ok)
	assert.Equal(t, uint64(23), age)
}

func TestBundleBuilderErrors(t *testing.T) {
	tests := []struct {
		name string
		bldr *BundleBuilder
		kind error
	}{
		{"invalid source", Builder().Source("foo:bar"), ErrEndpointID},
		{"invalid destination type", Builder().Destination(23), ErrEndpointID},
		{"no destination", Builder().Source("dtn://src/").PayloadBlock(nil), ErrPrimaryBlock},
		{"no payload", Builder().Source("dtn://src/").Destination("dtn://dst/").CreationTimestampNow(), ErrBundle},
		{"before epoch", Builder().CreationTimestampTime(time.Unix(0, 0)), ErrDtnTime},
		{"fragment conflict", Builder().Destination("dtn://dst/").CreationTimestampNow().
			BundleCtrlFlags(IsFragment | MustNotFragmented).PayloadBlock(nil), ErrBundleControlFlags},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.bldr.Build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, test.kind), "expected %v, got %v", test.kind, err)
		})
	}
}

func TestBundleBuilderFirstErrorSticks(t *testing.T) {
	bldr := Builder().
		Lifetime("not a duration").
		Source("foo:bar").
		Destination("dtn://dst/")

	err := bldr.Error()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEndpointID))

	_, buildErr := bldr.Build()
	assert.Equal(t, err, buildErr)
}

func TestBldrParseLifetime(t *testing.T) {
	tests := []struct {
		in    interface{}
		ms    uint64
		valid bool
	}{
		{uint64(23), 23, true},
		{uint(23), 23, true},
		{23, 23, true},
		{-1, 0, false},
		{time.Second, 1000, true},
		{"1m", 60000, true},
		{"-1m", 0, false},
		{"foo", 0, false},
		{23.0, 0, false},
	}

	for _, test := range tests {
		ms, err := bldrParseLifetime(test.in)
		if test.valid {
			assert.NoError(t, err, "%v", test.in)
			assert.Equal(t, test.ms, ms, "%v", test.in)
		} else {
			assert.Error(t, err, "%v", test.in)
		}
	}
}
