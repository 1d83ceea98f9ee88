package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_ReadWrite(t *testing.T) {
	strg := memory.New()
	defer strg.Close()

	genesis := database.NewGenesisBlock(1700000000000)
	block := database.NewBlock(1700000000001, []database.Tx{database.NewTx("kennedy", "pavel", 20)}, genesis.Hash())
	if err := block.Mine(context.Background(), 1, nil); err != nil {
		t.Fatalf("unable to mine block: %v", err)
	}

	t.Log("Given the need to store blocks in memory.")
	{
		t.Logf("\tTest 0:\tWhen writing blocks in order.")
		{
			for i, b := range []database.Block{genesis, block} {
				if err := strg.Write(database.NewBlockData(b, uint64(i))); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to write block %d: %v", failed, i, err)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould be able to write blocks.", success)

			blockData, err := strg.GetBlock(1)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to get block 1: %v", failed, err)
			}
			if got := database.ToBlock(blockData); got.Hash() != block.Hash() || got.RecomputeHash() != block.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould get back the same block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the same block.", success)

			var count int
			iter := strg.ForEach()
			for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to iterate: %v", failed, err)
				}
				if blockData.Number != uint64(count) {
					t.Fatalf("\t%s\tTest 0:\tShould iterate in order: got %d, exp %d", failed, blockData.Number, count)
				}
				count++
			}
			if count != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould iterate over 2 blocks: got %d", failed, count)
			}
			t.Logf("\t%s\tTest 0:\tShould iterate over the blocks in order.", success)
		}

		t.Logf("\tTest 1:\tWhen writing a block out of order.")
		{
			err := strg.Write(database.NewBlockData(block, 5))
			if !errors.Is(err, database.ErrOutOfOrder) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the block.", success)

			if _, err := strg.GetBlock(5); !errors.Is(err, database.ErrBlockNotFound) {
				t.Fatalf("\t%s\tTest 1:\tShould not find the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould not find the block.", success)
		}

		t.Logf("\tTest 2:\tWhen resetting the storage.")
		{
			if err := strg.Reset(); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to reset: %v", failed, err)
			}

			iter := strg.ForEach()
			iter.Next()
			if !iter.Done() {
				t.Fatalf("\t%s\tTest 2:\tShould have no blocks.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould have no blocks.", success)
		}
	}
}
