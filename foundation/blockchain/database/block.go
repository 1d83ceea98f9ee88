package database

import (
	"context"
	"errors"
	"fmt"
)

// MaxDifficulty is the largest number of leading 0's a block can be mined
// for. Anything larger would not be solved in a reasonable amount of time.
const MaxDifficulty uint = 8

// ErrDifficultyTooHigh is returned when a block is asked to be mined with
// a difficulty larger than MaxDifficulty.
var ErrDifficultyTooHigh = errors.New("difficulty too high")

// EventHandler defines a function that is called when events occur in the
// processing of blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// BlockHeader represents the fields of a block other than its transactions.
type BlockHeader struct {
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	TimeStamp     int64  `json:"timestamp"`       // Time the block was created in unix milliseconds.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
}

// Block represents a group of transactions batched together. The fields of a
// block can't be changed from outside this package, and the only way to change
// one is by mining it. Once a block is handed to a chain it is never mined again.
type Block struct {
	header BlockHeader
	trans  []Tx
	hash   string
}

// NewBlock constructs a block with a nonce of 0 and computes its hash. No
// mining is performed.
func NewBlock(timeStamp int64, trans []Tx, prevBlockHash string) Block {
	b := Block{
		header: BlockHeader{
			PrevBlockHash: prevBlockHash,
			TimeStamp:     timeStamp,
			Nonce:         0,
		},
		trans: copyTrans(trans),
	}
	b.hash = b.RecomputeHash()

	return b
}

// NewGenesisBlock constructs the first block of a chain. It holds no
// transactions and points at the zero hash.
func NewGenesisBlock(timeStamp int64) Block {
	return NewBlock(timeStamp, nil, ZeroHash)
}

// Hash returns the hash that was computed for the block when it was
// constructed or mined.
func (b Block) Hash() string {
	return b.hash
}

// RecomputeHash computes the hash from the current contents of the block. It
// does not change the block. A block whose Hash doesn't match this value has
// been tampered with.
func (b Block) RecomputeHash() string {
	return Hash(b.trans, b.header.TimeStamp, b.header.PrevBlockHash, b.header.Nonce)
}

// Header returns a copy of the block header.
func (b Block) Header() BlockHeader {
	return b.header
}

// PrevBlockHash returns the hash of the previous block in the chain.
func (b Block) PrevBlockHash() string {
	return b.header.PrevBlockHash
}

// TimeStamp returns the time the block was created in unix milliseconds.
func (b Block) TimeStamp() int64 {
	return b.header.TimeStamp
}

// Nonce returns the value that solved the hash solution.
func (b Block) Nonce() uint64 {
	return b.header.Nonce
}

// Transactions returns a copy of the transactions in the block.
func (b Block) Transactions() []Tx {
	return copyTrans(b.trans)
}

// Mine does the work of finding a nonce that produces a hash with the first
// difficulty characters set to 0. Pointer semantics are being used since the
// nonce and hash of this block are changed. The context is checked between
// attempts so the work can be cancelled.
func (b *Block) Mine(ctx context.Context, difficulty uint, ev EventHandler) error {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if difficulty > MaxDifficulty {
		return fmt.Errorf("mine difficulty %d, max %d: %w", difficulty, MaxDifficulty, ErrDifficultyTooHigh)
	}

	ev("database: Mine: MINING: started: difficulty[%d] txs[%d]", difficulty, len(b.trans))
	defer ev("database: Mine: MINING: completed")

	var attempts uint64
	for !IsHashSolved(difficulty, b.hash) {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Did we get asked to stop trying to solve the problem.
		if err := ctx.Err(); err != nil {
			ev("database: Mine: MINING: CANCELLED: attempts[%d]", attempts)
			return err
		}

		b.header.Nonce++
		b.hash = b.RecomputeHash()
	}

	ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.header.PrevBlockHash, b.hash, b.header.Nonce)

	return nil
}

// =============================================================================

// BlockData represents what is serialized to storage and over the network.
type BlockData struct {
	Number uint64      `json:"number"`
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"block"`
	Trans  []Tx        `json:"trans"`
}

// NewBlockData constructs the value to serialize for the block at the
// specified position in the chain.
func NewBlockData(block Block, number uint64) BlockData {
	return BlockData{
		Number: number,
		Hash:   block.hash,
		Header: block.header,
		Trans:  block.Transactions(),
	}
}

// ToBlock converts serialized block data back into a block. The stored hash
// is kept as is and not recomputed, so any change made to the stored data is
// caught when the chain is validated.
func ToBlock(blockData BlockData) Block {
	return Block{
		header: blockData.Header,
		trans:  copyTrans(blockData.Trans),
		hash:   blockData.Hash,
	}
}

// =============================================================================

// copyTrans returns a copy of the transactions that is never nil.
func copyTrans(trans []Tx) []Tx {
	cpy := make([]Tx, len(trans))
	copy(cpy, trans)
	return cpy
}
