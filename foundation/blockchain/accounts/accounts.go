// Package accounts maintains account balances derived from the blocks that
// have been added to the chain.
package accounts

import (
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Info represents information stored for an individual account.
type Info struct {
	Balance int64 `json:"balance"`
	Sent    int   `json:"sent"`
	Recv    int   `json:"recv"`
}

// Accounts manages data related to accounts who have transacted on
// the blockchain.
type Accounts struct {
	mu   sync.RWMutex
	info map[database.AccountID]Info
}

// New constructs an accounts value and applies the specified blocks in order.
func New(blocks []database.Block) *Accounts {
	act := Accounts{
		info: make(map[database.AccountID]Info),
	}

	for _, block := range blocks {
		act.applyBlock(block)
	}

	return &act
}

// Reset clears all the account information.
func (act *Accounts) Reset() {
	act.mu.Lock()
	defer act.mu.Unlock()

	act.info = make(map[database.AccountID]Info)
}

// ApplyBlock updates the accounts with every transaction in the block.
func (act *Accounts) ApplyBlock(block database.Block) {
	act.mu.Lock()
	defer act.mu.Unlock()

	act.applyBlock(block)
}

// Query returns the information for the specified account. Accounts that
// never transacted have a zero balance.
func (act *Accounts) Query(accountID database.AccountID) Info {
	act.mu.RLock()
	defer act.mu.RUnlock()

	return act.info[accountID]
}

// Copy makes a copy of the current information for all accounts.
func (act *Accounts) Copy() map[database.AccountID]Info {
	act.mu.RLock()
	defer act.mu.RUnlock()

	cpy := make(map[database.AccountID]Info, len(act.info))
	for accountID, info := range act.info {
		cpy[accountID] = info
	}

	return cpy
}

// =============================================================================

// applyBlock performs the accounting for the transactions in the block. The
// caller must hold the write lock.
func (act *Accounts) applyBlock(block database.Block) {
	for _, tx := range block.Transactions() {
		if from, ok := tx.From.Account(); ok {
			info := act.info[from]
			if from != tx.To {
				info.Balance = database.AddBalance(info.Balance, tx.Effect(from))
			}
			info.Sent++
			act.info[from] = info
		}

		info := act.info[tx.To]
		info.Balance = database.AddBalance(info.Balance, tx.Effect(tx.To))
		info.Recv++
		act.info[tx.To] = info
	}
}
