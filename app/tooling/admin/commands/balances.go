// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/fatih/color"
)

// Balances writes the balance of every account, or only the specified
// account, derived from the mined blocks.
func Balances(w io.Writer, c *chain.Chain, onlyAct string) error {
	fmt.Fprintf(w, "LatestBlockHash: %s\n\n", color.CyanString(c.LatestBlock().Hash()))

	if onlyAct != "" {
		accountID, err := database.ToAccountID(onlyAct)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Account: %s  Balance: %d\n", accountID, c.BalanceOf(accountID))
		return nil
	}

	accounts := c.Accounts()

	ids := make([]database.AccountID, 0, len(accounts))
	for accountID := range accounts {
		ids = append(ids, accountID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, accountID := range ids {
		info := accounts[accountID]
		fmt.Fprintf(w, "Account: %s  Balance: %d  Sent: %d  Recv: %d\n", accountID, info.Balance, info.Sent, info.Recv)
	}

	return nil
}
