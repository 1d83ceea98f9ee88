package accounts_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/accounts"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestTransactions(t *testing.T) {
	type table struct {
		name   string
		blocks [][]database.Tx
		final  map[database.AccountID]int64
	}

	tt := []table{
		{
			name: "basic",
			blocks: [][]database.Tx{
				{},
				{database.NewRewardTx("miner", 100)},
				{
					database.NewTx("miner", "kennedy", 20),
					database.NewTx("kennedy", "miner", 10),
				},
			},
			final: map[database.AccountID]int64{
				"miner":   90,
				"kennedy": 10,
			},
		},
		{
			name: "overdraft",
			blocks: [][]database.Tx{
				{database.NewTx("pavel", "ceasar", 50)},
			},
			final: map[database.AccountID]int64{
				"pavel":  -50,
				"ceasar": 50,
			},
		},
	}

	t.Log("Given the need to derive balances from blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of blocks.", testID)
			{
				f := func(t *testing.T) {
					var blocks []database.Block
					prevHash := database.ZeroHash
					for i, trans := range tst.blocks {
						block := database.NewBlock(int64(i), trans, prevHash)
						blocks = append(blocks, block)
						prevHash = block.Hash()
					}

					act := accounts.New(blocks[:1])
					for _, block := range blocks[1:] {
						act.ApplyBlock(block)
					}

					infos := act.Copy()
					if len(infos) != len(tst.final) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d accounts: got %d", failed, testID, len(tst.final), len(infos))
					}
					t.Logf("\t%s\tTest %d:\tShould have %d accounts.", success, testID, len(tst.final))

					for accountID, balance := range tst.final {
						if got := act.Query(accountID).Balance; got != balance {
							t.Errorf("\t%s\tTest %d:\tShould have correct balance for %s.", failed, testID, accountID)
							t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, got)
							t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, balance)
							continue
						}
						t.Logf("\t%s\tTest %d:\tShould have correct balance for %s.", success, testID, accountID)
					}

					act.Reset()
					if len(act.Copy()) != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould have no accounts after reset.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould have no accounts after reset.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
