// Package database handles the lower level support for the blockchain: the
// transactions and blocks that make up the chain, the hashing of blocks,
// and the behavior required of any package storing blocks.
package database

import "errors"

// Set of error variables for storage operations.
var (
	ErrOutOfOrder    = errors.New("block is out of order")
	ErrBlockNotFound = errors.New("block does not exist")
	ErrEndOfChain    = errors.New("end of chain")
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain. Blocks
// must be written in order, starting with the genesis block as number 0.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}
