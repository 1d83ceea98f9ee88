// Package mempool maintains the pool of pending transactions for the
// blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Mempool represents the ordered set of transactions that have been accepted
// but are not yet part of a block.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new count.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns the transactions in the pool in the order they were added.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// Replace removes the first mined transactions, which have been included in
// a block, and puts the seed transactions ahead of whatever remains. Anything
// added after the mined transactions were copied out is kept.
func (mp *Mempool) Replace(mined int, seed ...database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mined > len(mp.pool) {
		mined = len(mp.pool)
	}

	pool := make([]database.Tx, 0, len(seed)+len(mp.pool)-mined)
	pool = append(pool, seed...)
	pool = append(pool, mp.pool[mined:]...)

	mp.pool = pool
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
