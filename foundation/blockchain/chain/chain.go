// Package chain is the core API for the blockchain. It owns the blocks and
// the pending pool, and implements mining, validation, and balances.
package chain

import (
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/accounts"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/memory"
)

// Default configuration values for a chain.
const (
	DefaultDifficulty   uint   = 2
	DefaultMiningReward uint64 = 100
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to construct a chain.
type Config struct {
	Difficulty   uint             // Number of leading 0's a mined block hash needs.
	MiningReward uint64           // Amount minted for the account that mines a block.
	StrictPOW    bool             // Validation also checks every block was mined.
	Storage      database.Storage // Where blocks are persisted, memory when nil.
	EvHandler    EventHandler     // Receives processing events, optional.
	Now          func() time.Time // Clock used for block timestamps, time.Now when nil.
	GenesisTime  time.Time        // Timestamp of a new genesis block, the clock when zero.
}

// DefaultConfig returns a configuration with the default difficulty and
// mining reward, storing blocks in memory.
func DefaultConfig() Config {
	return Config{
		Difficulty:   DefaultDifficulty,
		MiningReward: DefaultMiningReward,
	}
}

// Chain manages the blocks of the blockchain and the transactions waiting
// to be mined. The blocks slice is never empty and starts with the genesis
// block.
type Chain struct {
	difficulty   uint
	miningReward uint64
	strictPOW    bool
	evHandler    EventHandler
	now          func() time.Time
	genesisTime  time.Time

	mining sync.Mutex
	mu     sync.RWMutex
	blocks []database.Block

	storage  database.Storage
	mempool  *mempool.Mempool
	accounts *accounts.Accounts
}

// New constructs a chain. Blocks already in storage are loaded, otherwise a
// new genesis block is created and written to storage.
func New(cfg Config) (*Chain, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Difficulty > database.MaxDifficulty {
		return nil, fmt.Errorf("difficulty %d, max %d: %w", cfg.Difficulty, database.MaxDifficulty, database.ErrDifficultyTooHigh)
	}

	if cfg.MiningReward > database.MaxAmount {
		return nil, fmt.Errorf("mining reward %d, max %d: %w", cfg.MiningReward, database.MaxAmount, database.ErrAmountTooLarge)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	strg := cfg.Storage
	if strg == nil {
		strg = memory.New()
	}

	// Load all existing blocks from storage into memory for processing.
	blocks, err := readAllBlocks(strg)
	if err != nil {
		return nil, fmt.Errorf("read blocks: %w", err)
	}

	// A new chain needs its genesis block.
	if len(blocks) == 0 {
		genesis := database.NewGenesisBlock(genesisTimeStamp(cfg.GenesisTime, now))
		if err := strg.Write(database.NewBlockData(genesis, 0)); err != nil {
			return nil, fmt.Errorf("write genesis: %w", err)
		}

		ev("chain: New: created genesis: blk[%s]", genesis.Hash())
		blocks = append(blocks, genesis)
	}

	ev("chain: New: loaded: blocks[%d] difficulty[%d] reward[%d]", len(blocks), cfg.Difficulty, cfg.MiningReward)

	c := Chain{
		difficulty:   cfg.Difficulty,
		miningReward: cfg.MiningReward,
		strictPOW:    cfg.StrictPOW,
		evHandler:    ev,
		now:          now,
		genesisTime:  cfg.GenesisTime,
		blocks:       blocks,
		storage:      strg,
		mempool:      mempool.New(),
		accounts:     accounts.New(blocks),
	}

	return &c, nil
}

// Shutdown cleanly releases the storage used by the chain.
func (c *Chain) Shutdown() error {
	c.evHandler("chain: Shutdown: close storage")

	// Wait for any mining operation to finish writing.
	c.mining.Lock()
	defer c.mining.Unlock()

	return c.storage.Close()
}

// Truncate resets the chain back to a new genesis block, removing every
// stored block and pending transaction.
func (c *Chain) Truncate() error {
	c.evHandler("chain: Truncate: started")
	defer c.evHandler("chain: Truncate: completed")

	c.mining.Lock()
	defer c.mining.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.storage.Reset(); err != nil {
		return fmt.Errorf("reset storage: %w", err)
	}

	// Storage is empty from here on, the old blocks can't be kept.
	genesis := database.NewGenesisBlock(genesisTimeStamp(c.genesisTime, c.now))
	c.blocks = []database.Block{genesis}
	c.mempool.Truncate()
	c.accounts.Reset()

	if err := c.storage.Write(database.NewBlockData(genesis, 0)); err != nil {
		return fmt.Errorf("write genesis: %w", err)
	}

	return nil
}

// CreateTransaction adds a transaction to the pending pool. No check is made
// on the balance of the sender or who submitted it. Transactions that can't
// be recorded on the chain are rejected.
func (c *Chain) CreateTransaction(tx database.Tx) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	n := c.mempool.Add(tx)
	c.evHandler("chain: CreateTransaction: tx[%s] pending[%d]", tx, n)

	return nil
}

// LatestBlock returns the last block of the chain.
func (c *Chain) LatestBlock() database.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.latestBlock()
}

// Difficulty returns the number of leading 0's required to mine a block.
func (c *Chain) Difficulty() uint {
	return c.difficulty
}

// MiningReward returns the amount minted for mining a block.
func (c *Chain) MiningReward() uint64 {
	return c.miningReward
}

// =============================================================================

// latestBlock returns the last block. The caller must hold a lock.
func (c *Chain) latestBlock() database.Block {
	if len(c.blocks) == 0 {
		panic("chain: invariant violated: chain has no genesis block")
	}

	return c.blocks[len(c.blocks)-1]
}

// readAllBlocks reads every block from storage, checking each one is stored
// under its position in the chain.
func readAllBlocks(strg database.Storage) ([]database.Block, error) {
	var blocks []database.Block

	iter := strg.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if blockData.Number != uint64(len(blocks)) {
			return nil, fmt.Errorf("block %d stored at %d: %w", blockData.Number, len(blocks), database.ErrOutOfOrder)
		}

		blocks = append(blocks, database.ToBlock(blockData))
	}

	return blocks, nil
}

// genesisTimeStamp returns the timestamp in milliseconds for a new genesis
// block. A zero time uses the clock.
func genesisTimeStamp(at time.Time, now func() time.Time) int64 {
	if at.IsZero() {
		at = now()
	}

	return at.UTC().UnixMilli()
}
