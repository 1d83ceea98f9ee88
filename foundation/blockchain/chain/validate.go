package chain

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Set of errors reported when validating the chain.
var (
	ErrBlockTampered = errors.New("block hash does not match its contents")
	ErrBrokenLink    = errors.New("block does not link to its parent")
	ErrUnsolvedBlock = errors.New("block hash does not satisfy the difficulty")
)

// IsChainValid reports whether every block is internally consistent and
// linked to the block before it.
func (c *Chain) IsChainValid() bool {
	return c.Validate() == nil
}

// Validate walks the chain and returns an error describing the first block
// that fails validation. A block fails when its hash doesn't match its
// contents or its previous hash doesn't match the hash of the block before
// it. When the chain is configured for strict proof of work, every block after
// genesis must also have a hash that satisfies the difficulty.
func (c *Chain) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return validateBlocks(c.blocks, c.difficulty, c.strictPOW)
}

// validateBlocks performs the validation of the set of blocks.
func validateBlocks(blocks []database.Block, difficulty uint, strictPOW bool) error {
	if len(blocks) == 0 {
		return errors.New("chain has no genesis block")
	}

	genesis := blocks[0]
	if genesis.PrevBlockHash() != database.ZeroHash {
		return fmt.Errorf("blk[0]: genesis previous hash %s: %w", genesis.PrevBlockHash(), ErrBrokenLink)
	}
	if genesis.Hash() != genesis.RecomputeHash() {
		return fmt.Errorf("blk[0]: %w", ErrBlockTampered)
	}

	for i := 1; i < len(blocks); i++ {
		block := blocks[i]
		prevBlock := blocks[i-1]

		if hash := block.RecomputeHash(); block.Hash() != hash {
			return fmt.Errorf("blk[%d]: got %s, exp %s: %w", i, hash, block.Hash(), ErrBlockTampered)
		}

		if block.PrevBlockHash() != prevBlock.Hash() {
			return fmt.Errorf("blk[%d]: got %s, exp %s: %w", i, block.PrevBlockHash(), prevBlock.Hash(), ErrBrokenLink)
		}

		if strictPOW && !database.IsHashSolved(difficulty, block.Hash()) {
			return fmt.Errorf("blk[%d]: difficulty %d: %w", i, difficulty, ErrUnsolvedBlock)
		}
	}

	return nil
}
