// SPDX-FileCopyrightText: 2018, 2019, 2020, 2022 Alvar Penning
// SPDX-FileCopyrightText: 2022 Markus Sommer
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

// Bundle represents a bundle as defined in section 4.3. Each Bundle contains
// one primary block and multiple canonical blocks. The canonical blocks are
// kept in their given order, which is their wire and processing order.
type Bundle struct {
	PrimaryBlock    PrimaryBlock
	CanonicalBlocks []CanonicalBlock
}

// NewBundle creates a new Bundle. The values and flags of the blocks will be
// checked and the first violation might be returned.
func NewBundle(primary PrimaryBlock, canonicals []CanonicalBlock) (b Bundle, err error) {
	b = MustNewBundle(primary, canonicals)
	err = b.CheckValid()

	return
}

// MustNewBundle creates a new Bundle like NewBundle, but skips the validity
// check. No panic will be called!
func MustNewBundle(primary PrimaryBlock, canonicals []CanonicalBlock) Bundle {
	return Bundle{
		PrimaryBlock:    primary,
		CanonicalBlocks: canonicals,
	}
}

// Copy returns a deep copy of this Bundle.
//
// Assigning a Bundle shares its CanonicalBlocks, so that modifying a block
// affects each holder. Holders which modify a Bundle, e.g., by increasing its
// hop count, must work on their own Copy.
func (b Bundle) Copy() Bundle {
	cp := Bundle{PrimaryBlock: b.PrimaryBlock.Copy()}
	if b.CanonicalBlocks != nil {
		cp.CanonicalBlocks = make([]CanonicalBlock, len(b.CanonicalBlocks))
		for i, cb := range b.CanonicalBlocks {
			cp.CanonicalBlocks[i] = cb.Copy()
		}
	}
	return cp
}

// ExtensionBlocks returns all this Bundle's canonical blocks matching the
// requested block type code. If no such block was found, an error will be
// returned.
func (b *Bundle) ExtensionBlocks(blockType uint64) (cbs []*CanonicalBlock, err error) {
	for i := 0; i < len(b.CanonicalBlocks); i++ {
		if cb := &b.CanonicalBlocks[i]; cb.BlockType == blockType {
			cbs = append(cbs, cb)
		}
	}

	if len(cbs) == 0 {
		err = newError(BundleError, "no CanonicalBlock with block type %d was found in Bundle", blockType)
	}
	return
}

// ExtensionBlock returns a Canonical Block for the requested type code.
//
// If there is no such Block or more than exactly one Block, an error will be returned.
func (b *Bundle) ExtensionBlock(blockType uint64) (*CanonicalBlock, error) {
	cbs, err := b.ExtensionBlocks(blockType)

	if err != nil {
		return nil, err
	} else if l := len(cbs); l != 1 {
		return nil, newError(BundleError, "there are %d Extension Blocks for type code %d", l, blockType)
	} else {
		return cbs[0], nil
	}
}

// HasExtensionBlock checks if a CanonicalBlock for some block type number is present.
func (b *Bundle) HasExtensionBlock(blockType uint64) bool {
	_, err := b.ExtensionBlocks(blockType)
	return err == nil
}

// PayloadBlock returns this Bundle's payload block or an error, if it does
// not exists.
func (b *Bundle) PayloadBlock() (*CanonicalBlock, error) {
	return b.ExtensionBlock(ExtBlockTypePayloadBlock)
}

// AddExtensionBlock adds a new CanonicalBlock to this Bundle, right before a
// trailing Payload Block.
//
// Except for a Payload Block, the block number will be calculated and
// overwritten within this method.
func (b *Bundle) AddExtensionBlock(block CanonicalBlock) {
	if block.BlockType != ExtBlockTypePayloadBlock {
		used := make(map[uint64]bool)
		for _, cb := range b.CanonicalBlocks {
			used[cb.BlockNumber] = true
		}

		block.BlockNumber = payloadBlockNumber + 1
		for used[block.BlockNumber] {
			block.BlockNumber++
		}
	}

	pos := len(b.CanonicalBlocks)
	if pos > 0 && b.CanonicalBlocks[pos-1].BlockType == ExtBlockTypePayloadBlock {
		pos--
	}

	b.CanonicalBlocks = append(b.CanonicalBlocks, CanonicalBlock{})
	copy(b.CanonicalBlocks[pos+1:], b.CanonicalBlocks[pos:])
	b.CanonicalBlocks[pos] = block
}

// GetExtensionBlockByBlockNumber searches and returns a CanonicalBlock with
// the given block number.
func (b *Bundle) GetExtensionBlockByBlockNumber(blockNumber uint64) (*CanonicalBlock, error) {
	for i := 0; i < len(b.CanonicalBlocks); i++ {
		if b.CanonicalBlocks[i].BlockNumber == blockNumber {
			return &b.CanonicalBlocks[i], nil
		}
	}
	return nil, newError(BundleError, "block with number %d not found", blockNumber)
}

// RemoveExtensionBlockByBlockNumber searches and removes a CanonicalBlock with
// the given block number. If no such block exists, the method will do nothing.
func (b *Bundle) RemoveExtensionBlockByBlockNumber(blockNumber uint64) {
	for i := 0; i < len(b.CanonicalBlocks); i++ {
		if b.CanonicalBlocks[i].BlockNumber == blockNumber {
			b.CanonicalBlocks = append(b.CanonicalBlocks[:i], b.CanonicalBlocks[i+1:]...)
			return
		}
	}
}

// SetCRCType sets the given CRCType for each block and drops former values.
// The new CRC values must be calculated by CalculateCRC or by serialization.
func (b *Bundle) SetCRCType(crcType CRCType) {
	b.PrimaryBlock.CRC = CRC{Type: crcType}
	for i := range b.CanonicalBlocks {
		b.CanonicalBlocks[i].CRC = CRC{Type: crcType}
	}
}

// IsAdministrativeRecord returns if this Bundle's control flags indicate this
// has an administrative record payload.
func (b Bundle) IsAdministrativeRecord() bool {
	return b.PrimaryBlock.BundleControlFlags.Has(AdministrativeRecordPayload)
}

// IsLifetimeExceeded of this Bundle by checking an optional Bundle Age Block and the PrimaryBlock's Lifetime.
func (b Bundle) IsLifetimeExceeded() bool {
	if b.PrimaryBlock.CreationTimestamp.IsZeroTime() {
		bab, err := b.ExtensionBlock(ExtBlockTypeBundleAgeBlock)
		if err != nil {
			return true
		}

		age, _ := bab.BundleAge()
		return age > b.PrimaryBlock.Lifetime
	}

	return b.PrimaryBlock.IsLifetimeExceeded()
}

// validateBlockSequence checks rules spanning multiple canonical blocks.
func (b Bundle) validateBlockSequence(c *checker) {
	c.rule(func() error {
		numbers := make(map[uint64]bool)
		for _, cb := range b.CanonicalBlocks {
			if numbers[cb.BlockNumber] {
				return newError(BundleError, "Block number %d occurred multiple times", cb.BlockNumber)
			}
			numbers[cb.BlockNumber] = true
		}
		return nil
	})

	c.rule(func() error {
		payloads, _ := b.ExtensionBlocks(ExtBlockTypePayloadBlock)
		if l := len(payloads); l != 1 {
			return newError(BundleError, "Bundle must have exactly one Payload Block, has %d", l)
		}
		if last := b.CanonicalBlocks[len(b.CanonicalBlocks)-1]; last.BlockType != ExtBlockTypePayloadBlock {
			return newError(BundleError, "last CanonicalBlock is not a Payload Block, but %d", last.BlockType)
		}
		return nil
	})

	for _, blockType := range []uint64{ExtBlockTypeHopCountBlock, ExtBlockTypeBundleAgeBlock, ExtBlockTypePreviousNodeBlock} {
		blockType := blockType
		c.rule(func() error {
			if cbs, _ := b.ExtensionBlocks(blockType); len(cbs) > 1 {
				return newError(BundleError, "there are %d Extension Blocks for type code %d", len(cbs), blockType)
			}
			return nil
		})
	}

	c.rule(func() error {
		if b.PrimaryBlock.CreationTimestamp.IsZeroTime() && !b.HasExtensionBlock(ExtBlockTypeBundleAgeBlock) {
			return newError(BundleError, "Creation Timestamp is zero, but no Bundle Age block exists")
		}
		return nil
	})

	c.rule(func() error {
		if !b.IsAdministrativeRecord() {
			return nil
		}
		for _, cb := range b.CanonicalBlocks {
			if cb.BlockControlFlags.Has(StatusReportBlock) {
				return newError(BundleError, "Bundle's payload is an administrative record, but block %d "+
					"requests a status report if it cannot be processed", cb.BlockNumber)
			}
		}
		return nil
	})
}

func (b Bundle) validate(c *checker) {
	b.PrimaryBlock.validate(c)
	for _, cb := range b.CanonicalBlocks {
		cb.validate(c)
	}
	b.validateBlockSequence(c)
}

// CheckValid returns the first violation of this Bundle. At first, the
// PrimaryBlock is checked, followed by each CanonicalBlock in order and the
// rules spanning multiple blocks.
func (b Bundle) CheckValid() error {
	return checkFirst(b)
}

// Violations returns all violations of this Bundle as a *multierror.Error.
func (b Bundle) Violations() error {
	return checkAll(b)
}

func (b Bundle) String() string {
	return b.ID().String()
}
