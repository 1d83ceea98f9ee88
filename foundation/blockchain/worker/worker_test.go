package worker_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Mining(t *testing.T) {
	t.Log("Given the need to mine blocks in the background.")
	{
		t.Logf("\tTest 0:\tWhen mining is signaled.")
		{
			c, err := chain.New(chain.Config{Difficulty: 1, MiningReward: 100})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the chain: %v", failed, err)
			}

			c.CreateTransaction(database.NewTx("kennedy", "pavel", 10))

			w := worker.Run(c, "miner", nil)
			w.SignalStartMining()

			if !waitFor(func() bool { return c.Length() == 2 }) {
				w.Shutdown()
				t.Fatalf("\t%s\tTest 0:\tShould mine a block: len %d", failed, c.Length())
			}
			t.Logf("\t%s\tTest 0:\tShould mine a block.", success)

			w.Shutdown()

			pending := c.Pending()
			if len(pending) != 1 || pending[0].To != "miner" || !pending[0].IsReward() {
				t.Fatalf("\t%s\tTest 0:\tShould leave the reward for the miner pending: %v", failed, pending)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the reward for the miner pending.", success)

			if c.BalanceOf("pavel") != 10 {
				t.Fatalf("\t%s\tTest 0:\tShould confirm the transfer: got %d", failed, c.BalanceOf("pavel"))
			}
			t.Logf("\t%s\tTest 0:\tShould confirm the transfer.", success)
		}

		t.Logf("\tTest 1:\tWhen mining is cancelled.")
		{
			c, err := chain.New(chain.Config{Difficulty: database.MaxDifficulty, MiningReward: 100})
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to construct the chain: %v", failed, err)
			}

			started := make(chan struct{}, 1)
			ev := func(v string, args ...any) {
				if strings.Contains(v, "MINING: started") {
					select {
					case started <- struct{}{}:
					default:
					}
				}
			}

			w := worker.Run(c, "miner", ev)
			w.SignalStartMining()

			select {
			case <-started:
			case <-time.After(5 * time.Second):
				w.Shutdown()
				t.Fatalf("\t%s\tTest 1:\tShould start mining.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould start mining.", success)

			w.SignalCancelMining()
			w.Shutdown()

			if c.Length() != 1 || len(c.Pending()) != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould leave the chain unchanged: len %d, pending %d", failed, c.Length(), len(c.Pending()))
			}
			t.Logf("\t%s\tTest 1:\tShould leave the chain unchanged.", success)
		}
	}
}

// waitFor polls the condition until it is true or a few seconds pass.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}

	return false
}
