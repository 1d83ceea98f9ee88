// This program runs a short scenario against an in memory chain: rewards
// are mined, transfers are made, and the resulting balances and chain are
// printed. It ends by tampering with a stored block to show the change is
// detected.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/powchain/foundation/logger"
	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {
	log, err := logger.New("DEMO")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		if !errors.Is(err, conf.ErrHelpWanted) {
			log.Errorw("demo", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Difficulty   uint   `conf:"default:2"`
		MiningReward uint64 `conf:"default:100"`
		Miner1       string `conf:"default:publicKeyMiner1"`
		Miner2       string `conf:"default:publicKeyMiner2"`
		Dump         bool   `conf:"default:true"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work ledger demo",
		},
	}

	const prefix = "DEMO"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return err
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	miner1 := database.AccountID(cfg.Miner1)
	miner2 := database.AccountID(cfg.Miner2)

	strg := memory.New()

	c, err := chain.New(chain.Config{
		Difficulty:   cfg.Difficulty,
		MiningReward: cfg.MiningReward,
		Storage:      strg,
		EvHandler: func(v string, args ...any) {
			log.Infow(fmt.Sprintf(v, args...))
		},
	})
	if err != nil {
		return err
	}
	defer c.Shutdown()

	// =========================================================================
	// Scenario

	ctx := context.Background()

	mine := func(accountID database.AccountID) error {
		block, err := c.MinePendingTransactions(ctx, accountID)
		if err != nil {
			return fmt.Errorf("mining for %s: %w", accountID, err)
		}
		fmt.Printf("Block mined: %s nonce[%d]\n", color.CyanString(block.Hash()), block.Nonce())
		return nil
	}

	if err := mine(miner1); err != nil {
		return err
	}
	if err := mine(miner1); err != nil {
		return err
	}

	for _, tx := range []database.Tx{database.NewTx(miner1, miner2, 20), database.NewTx(miner2, miner1, 10)} {
		if err := c.CreateTransaction(tx); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
	}

	if err := mine(miner1); err != nil {
		return err
	}
	if err := mine(miner2); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Balance of %s: %s\n", miner1, color.YellowString("%d", c.BalanceOf(miner1)))
	fmt.Printf("Balance of %s: %s (its reward is still pending)\n", miner2, color.YellowString("%d", c.BalanceOf(miner2)))
	printValid(c)

	if cfg.Dump {
		fmt.Println()
		spew.Dump(c.QueryBlocksByAccount(""))
	}

	// =========================================================================
	// Tamper with the stored chain

	fmt.Println()
	fmt.Println("Changing the amount of the first transfer in storage")

	blockData, err := strg.GetBlock(3)
	if err != nil {
		return fmt.Errorf("reading block 3: %w", err)
	}

	tampered := memory.New()
	iter := strg.ForEach()
	for stored, err := iter.Next(); !iter.Done(); stored, err = iter.Next() {
		if err != nil {
			return err
		}

		if stored.Number == blockData.Number {
			stored.Trans = append([]database.Tx(nil), stored.Trans...)
			for i, tx := range stored.Trans {
				if !tx.IsReward() {
					stored.Trans[i].Amount = 1_000
					break
				}
			}
		}

		if err := tampered.Write(stored); err != nil {
			return err
		}
	}

	tc, err := chain.New(chain.Config{Difficulty: cfg.Difficulty, MiningReward: cfg.MiningReward, Storage: tampered})
	if err != nil {
		return err
	}
	defer tc.Shutdown()

	printValid(tc)

	return nil
}

func printValid(c *chain.Chain) {
	if err := c.Validate(); err != nil {
		fmt.Printf("Is chain valid: %s (%s)\n", color.RedString("false"), err)
		return
	}
	fmt.Printf("Is chain valid: %s\n", color.GreenString("true"))
}
