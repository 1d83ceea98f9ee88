package chain

import (
	"context"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// MinePendingTransactions packages the pending transactions into a new block,
// mines it, and appends it to the chain. The pending pool is then replaced by
// a reward transaction for the specified account, so the reward is confirmed
// by the next block that is mined. If the context is cancelled before a
// solution is found, nothing changes.
func (c *Chain) MinePendingTransactions(ctx context.Context, rewardAccountID database.AccountID) (database.Block, error) {
	c.evHandler("chain: MinePendingTransactions: started: reward[%s]", rewardAccountID)
	defer c.evHandler("chain: MinePendingTransactions: completed")

	if err := rewardAccountID.Validate(); err != nil {
		return database.Block{}, fmt.Errorf("reward account: %w", err)
	}

	// Only one block can be mined at a time. This guarantees the latest block
	// can't change between building the new block and appending it.
	c.mining.Lock()
	defer c.mining.Unlock()

	trans := c.mempool.Copy()
	prevBlock := c.LatestBlock()

	c.evHandler("chain: MinePendingTransactions: MINING: perform POW: txs[%d]", len(trans))

	block := database.NewBlock(c.now().UTC().UnixMilli(), trans, prevBlock.Hash())
	if err := block.Mine(ctx, c.difficulty, database.EventHandler(c.evHandler)); err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if err := ctx.Err(); err != nil {
		return database.Block{}, err
	}

	c.evHandler("chain: MinePendingTransactions: MINING: update local state")

	if err := c.appendBlock(block); err != nil {
		return database.Block{}, err
	}

	// The transactions just mined are removed and the reward waits for the
	// next block.
	c.mempool.Replace(len(trans), database.NewRewardTx(rewardAccountID, c.miningReward))

	return block, nil
}

// appendBlock writes the block to storage and adds it to the end of the chain.
func (c *Chain) appendBlock(block database.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	number := uint64(len(c.blocks))

	c.evHandler("chain: appendBlock: write to storage: blk[%d]", number)

	if err := c.storage.Write(database.NewBlockData(block, number)); err != nil {
		return fmt.Errorf("write block %d: %w", number, err)
	}

	c.blocks = append(c.blocks, block)
	c.accounts.ApplyBlock(block)

	return nil
}
