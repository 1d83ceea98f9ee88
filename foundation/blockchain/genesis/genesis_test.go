package genesis_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	type table struct {
		name     string
		content  string
		expDiff  uint
		expRward uint64
		expPOW   bool
		expDate  time.Time
	}

	tt := []table{
		{name: "full", content: `{"difficulty":3,"mining_reward":50,"strict_pow":true}`, expDiff: 3, expRward: 50, expPOW: true},
		{name: "partial", content: `{"difficulty":1}`, expDiff: 1, expRward: chain.DefaultMiningReward},
		{name: "empty", content: `{}`, expDiff: chain.DefaultDifficulty, expRward: chain.DefaultMiningReward},
		{name: "dated", content: `{"date":"2026-10-01T00:00:00Z"}`, expDiff: chain.DefaultDifficulty, expRward: chain.DefaultMiningReward, expDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
	}

	t.Log("Given the need to load a genesis file.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling a %s file.", testID, tst.name)
				{
					path := filepath.Join(t.TempDir(), "genesis.json")
					if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
					}

					gen, err := genesis.Load(path)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

					cfg := gen.ChainConfig()
					if cfg.Difficulty != tst.expDiff || cfg.MiningReward != tst.expRward || cfg.StrictPOW != tst.expPOW || !cfg.GenesisTime.Equal(tst.expDate) {
						t.Fatalf("\t%s\tTest %d:\tShould get the expected config: %+v", failed, testID, cfg)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected config.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}

		t.Logf("\tTest %d:\tWhen the file doesn't exist.", len(tt))
		{
			gen, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json"))
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould fall back to the defaults: %v", failed, len(tt), err)
			}
			if gen != genesis.Default() {
				t.Fatalf("\t%s\tTest %d:\tShould fall back to the defaults: %+v", failed, len(tt), gen)
			}
			t.Logf("\t%s\tTest %d:\tShould fall back to the defaults.", success, len(tt))
		}

		t.Logf("\tTest %d:\tWhen the file is not valid JSON.", len(tt)+1)
		{
			path := filepath.Join(t.TempDir(), "genesis.json")
			os.WriteFile(path, []byte("{"), 0600)

			if _, err := genesis.Load(path); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail to load.", failed, len(tt)+1)
			}
			t.Logf("\t%s\tTest %d:\tShould fail to load.", success, len(tt)+1)
		}
	}
}
