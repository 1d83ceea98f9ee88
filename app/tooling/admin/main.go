// This program performs administrative tasks for a stored chain.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powchain/app/tooling/admin/commands"
	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/bolt"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/powchain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		if !errors.Is(err, conf.ErrHelpWanted) {
			log.Errorw("startup", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		conf.Args
		State struct {
			Storage     string `conf:"default:bolt"`
			DBPath      string `conf:"default:zblock/blocks.db"`
			GenesisPath string `conf:"default:zblock/genesis.json"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work ledger admin",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return err
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	gen, err := genesis.Load(cfg.State.GenesisPath)
	if err != nil {
		return fmt.Errorf("loading genesis: %w", err)
	}

	var strg database.Storage
	switch cfg.State.Storage {
	case "bolt":
		strg, err = bolt.New(cfg.State.DBPath)
	case "disk":
		strg, err = disk.New(cfg.State.DBPath)
	default:
		return fmt.Errorf("unknown storage %q, expecting bolt or disk", cfg.State.Storage)
	}
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	chainCfg := gen.ChainConfig()
	chainCfg.Storage = strg
	chainCfg.EvHandler = func(v string, args ...any) {
		log.Debugw(fmt.Sprintf(v, args...))
	}

	c, err := chain.New(chainCfg)
	if err != nil {
		strg.Close()
		return fmt.Errorf("loading chain: %w", err)
	}
	defer c.Shutdown()

	return processCommands(cfg.Args, c)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, c *chain.Chain) error {
	switch args.Num(0) {
	case "bals":
		if err := commands.Balances(os.Stdout, c, args.Num(1)); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}
	case "blocks":
		if err := commands.Blocks(os.Stdout, c, args.Num(1)); err != nil {
			return fmt.Errorf("getting blocks: %w", err)
		}
	case "validate":
		if err := commands.Validate(os.Stdout, c); err != nil {
			return fmt.Errorf("validating chain: %w", err)
		}
	case "reset":
		if err := commands.Reset(os.Stdout, c); err != nil {
			return fmt.Errorf("resetting chain: %w", err)
		}
	default:
		fmt.Println("bals [account]: show the balances of the accounts")
		fmt.Println("blocks [account]: show the blocks of the chain")
		fmt.Println("validate: check the chain is valid")
		fmt.Println("reset: remove every block and start over from a new genesis block")
		fmt.Println("provide a command to get more help.")
	}

	return nil
}
