package chain

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/accounts"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// BalanceOf walks every transaction of every block in order and returns the
// balance of the specified account. Pending transactions are not counted.
func (c *Chain) BalanceOf(accountID database.AccountID) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var balance int64
	for _, block := range c.blocks {
		for _, tx := range block.Transactions() {
			balance = database.AddBalance(balance, tx.Effect(accountID))
		}
	}

	return balance
}

// Accounts returns the information for every account that has a confirmed
// transaction on the chain.
func (c *Chain) Accounts() map[database.AccountID]accounts.Info {
	return c.accounts.Copy()
}

// QueryAccount returns the information for the specified account.
func (c *Chain) QueryAccount(accountID database.AccountID) accounts.Info {
	return c.accounts.Query(accountID)
}

// Blocks returns a copy of the blocks in the chain, starting with genesis.
func (c *Chain) Blocks() []database.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]database.Block, len(c.blocks))
	copy(blocks, c.blocks)

	return blocks
}

// Length returns the number of blocks in the chain including genesis.
func (c *Chain) Length() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.blocks)
}

// QueryBlocksByNumber returns the blocks from one number to another inclusive.
func (c *Chain) QueryBlocksByNumber(from uint64, to uint64) []database.BlockData {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []database.BlockData
	for i := from; i <= to && i < uint64(len(c.blocks)); i++ {
		out = append(out, database.NewBlockData(c.blocks[i], i))
	}

	return out
}

// QueryBlocksByAccount returns the blocks holding a transaction sent or
// received by the specified account. An empty account returns every block.
func (c *Chain) QueryBlocksByAccount(accountID database.AccountID) []database.BlockData {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []database.BlockData

blocks:
	for i, block := range c.blocks {
		if accountID == "" {
			out = append(out, database.NewBlockData(block, uint64(i)))
			continue
		}

		for _, tx := range block.Transactions() {
			if tx.Involves(accountID) {
				out = append(out, database.NewBlockData(block, uint64(i)))
				continue blocks
			}
		}
	}

	return out
}

// Pending returns the transactions waiting to be mined.
func (c *Chain) Pending() []database.Tx {
	return c.mempool.Copy()
}

// PendingCount returns the number of transactions waiting to be mined.
func (c *Chain) PendingCount() int {
	return c.mempool.Count()
}
