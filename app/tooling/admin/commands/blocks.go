package commands

import (
	"fmt"
	"io"

	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/fatih/color"
)

// Blocks writes every block, or only the blocks holding transactions for the
// specified account.
func Blocks(w io.Writer, c *chain.Chain, onlyAct string) error {
	for _, blockData := range c.QueryBlocksByAccount(database.AccountID(onlyAct)) {
		fmt.Fprintf(w, "Block %d: %s\n", blockData.Number, color.CyanString(blockData.Hash))
		fmt.Fprintf(w, "  Prev: %s  TimeStamp: %d  Nonce: %d\n", blockData.Header.PrevBlockHash, blockData.Header.TimeStamp, blockData.Header.Nonce)

		for _, tx := range blockData.Trans {
			fmt.Fprintf(w, "  From: %s  To: %s  Amount: %d\n", tx.From, tx.To, tx.Amount)
		}
	}

	return nil
}

// Validate reports whether the stored chain is valid. An invalid chain is
// returned as an error.
func Validate(w io.Writer, c *chain.Chain) error {
	if err := c.Validate(); err != nil {
		fmt.Fprintf(w, "Chain of %d blocks: %s\n", c.Length(), color.RedString("NOT VALID"))
		return err
	}

	fmt.Fprintf(w, "Chain of %d blocks: %s\n", c.Length(), color.GreenString("VALID"))
	return nil
}

// Reset removes every block and starts the chain over from a new genesis block.
func Reset(w io.Writer, c *chain.Chain) error {
	if err := c.Truncate(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Chain reset, genesis: %s\n", color.CyanString(c.LatestBlock().Hash()))
	return nil
}
