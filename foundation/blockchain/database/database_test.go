package database_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Hash(t *testing.T) {
	trans := []database.Tx{
		database.NewTx("kennedy", "pavel", 20),
		database.NewRewardTx("kennedy", 100),
	}

	base := database.Hash(trans, 1700000000000, database.ZeroHash, 7)

	t.Log("Given the need to hash block fields deterministically.")
	{
		t.Logf("\tTest 0:\tWhen hashing the same fields twice.")
		{
			if got := database.Hash(trans, 1700000000000, database.ZeroHash, 7); got != base {
				t.Fatalf("\t%s\tTest 0:\tShould get the same hash: got %s, exp %s", failed, got, base)
			}
			t.Logf("\t%s\tTest 0:\tShould get the same hash.", success)

			if len(base) != 64 || strings.ToLower(base) != base || strings.HasPrefix(base, "0x") {
				t.Fatalf("\t%s\tTest 0:\tShould get 64 lowercase hex characters: %s", failed, base)
			}
			t.Logf("\t%s\tTest 0:\tShould get 64 lowercase hex characters.", success)
		}

		t.Logf("\tTest 1:\tWhen changing a single field.")
		{
			changed := map[string]string{
				"timestamp":    database.Hash(trans, 1700000000001, database.ZeroHash, 7),
				"prevHash":     database.Hash(trans, 1700000000000, strings.Repeat("1", 64), 7),
				"nonce":        database.Hash(trans, 1700000000000, database.ZeroHash, 8),
				"amount":       database.Hash([]database.Tx{database.NewTx("kennedy", "pavel", 21), trans[1]}, 1700000000000, database.ZeroHash, 7),
				"order":        database.Hash([]database.Tx{trans[1], trans[0]}, 1700000000000, database.ZeroHash, 7),
				"transactions": database.Hash(trans[:1], 1700000000000, database.ZeroHash, 7),
			}

			for field, hash := range changed {
				if hash == base {
					t.Errorf("\t%s\tTest 1:\tShould get a different hash when changing %s.", failed, field)
					continue
				}
				t.Logf("\t%s\tTest 1:\tShould get a different hash when changing %s.", success, field)
			}
		}

		t.Logf("\tTest 2:\tWhen hashing a nil and an empty transaction list.")
		{
			h1 := database.Hash(nil, 1, database.ZeroHash, 0)
			h2 := database.Hash([]database.Tx{}, 1, database.ZeroHash, 0)
			if h1 != h2 {
				t.Fatalf("\t%s\tTest 2:\tShould get the same hash: %s != %s", failed, h1, h2)
			}
			t.Logf("\t%s\tTest 2:\tShould get the same hash.", success)
		}

		t.Logf("\tTest 3:\tWhen addresses differ only in bytes that are not valid UTF-8.")
		{
			h1 := database.Hash([]database.Tx{database.NewTx("A\xff", "B", 5)}, 1, database.ZeroHash, 0)
			h2 := database.Hash([]database.Tx{database.NewTx("A\xfe", "B", 5)}, 1, database.ZeroHash, 0)
			if h1 == h2 {
				t.Fatalf("\t%s\tTest 3:\tShould get a different hash for different senders: %s", failed, h1)
			}
			t.Logf("\t%s\tTest 3:\tShould get a different hash for different senders.", success)

			h3 := database.Hash([]database.Tx{database.NewTx("B", "A\xff", 5)}, 1, database.ZeroHash, 0)
			h4 := database.Hash([]database.Tx{database.NewTx("B", "A\xfe", 5)}, 1, database.ZeroHash, 0)
			if h3 == h4 {
				t.Fatalf("\t%s\tTest 3:\tShould get a different hash for different receivers: %s", failed, h3)
			}
			t.Logf("\t%s\tTest 3:\tShould get a different hash for different receivers.", success)
		}

		t.Logf("\tTest 4:\tWhen bytes move between the sender and the receiver.")
		{
			h1 := database.Hash([]database.Tx{database.NewTx("ab", "c", 5)}, 1, database.ZeroHash, 0)
			h2 := database.Hash([]database.Tx{database.NewTx("a", "bc", 5)}, 1, database.ZeroHash, 0)
			if h1 == h2 {
				t.Fatalf("\t%s\tTest 4:\tShould get a different hash: %s", failed, h1)
			}
			t.Logf("\t%s\tTest 4:\tShould get a different hash.", success)
		}
	}
}

func Test_NewBlock(t *testing.T) {
	trans := []database.Tx{database.NewTx("kennedy", "pavel", 20)}

	t.Log("Given the need to construct a block.")
	{
		t.Logf("\tTest 0:\tWhen constructing a block from a set of transactions.")
		{
			block := database.NewBlock(1700000000000, trans, database.ZeroHash)

			if block.Nonce() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould start with a nonce of 0: got %d", failed, block.Nonce())
			}
			t.Logf("\t%s\tTest 0:\tShould start with a nonce of 0.", success)

			if block.Hash() != block.RecomputeHash() {
				t.Fatalf("\t%s\tTest 0:\tShould have its hash computed.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have its hash computed.", success)

			trans[0].Amount = 1000
			if block.Transactions()[0].Amount != 20 || block.Hash() != block.RecomputeHash() {
				t.Fatalf("\t%s\tTest 0:\tShould not be affected by changes to the caller's slice.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not be affected by changes to the caller's slice.", success)

			got := block.Transactions()
			got[0].To = "ceasar"
			if block.Transactions()[0].To != "pavel" {
				t.Fatalf("\t%s\tTest 0:\tShould not be affected by changes to a returned slice.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not be affected by changes to a returned slice.", success)
		}
	}
}

func Test_Mine(t *testing.T) {
	t.Log("Given the need to mine a block.")
	{
		for difficulty := uint(0); difficulty <= 3; difficulty++ {
			t.Logf("\tTest %d:\tWhen mining with difficulty %d.", difficulty, difficulty)
			{
				f := func(t *testing.T) {
					trans := []database.Tx{database.NewTx("kennedy", "pavel", uint64(difficulty)+1)}
					block := database.NewBlock(1700000000000, trans, database.ZeroHash)
					other := database.NewBlock(1700000000000, trans, database.ZeroHash)

					if err := block.Mine(context.Background(), difficulty, nil); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %v", failed, difficulty, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, difficulty)

					hash := block.Hash()
					if hash[:difficulty] != strings.Repeat("0", int(difficulty)) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d leading zeros: %s", failed, difficulty, difficulty, hash)
					}
					t.Logf("\t%s\tTest %d:\tShould have %d leading zeros.", success, difficulty, difficulty)

					if hash != block.RecomputeHash() {
						t.Fatalf("\t%s\tTest %d:\tShould have a hash matching its contents.", failed, difficulty)
					}
					t.Logf("\t%s\tTest %d:\tShould have a hash matching its contents.", success, difficulty)

					if other.Nonce() != 0 || other.Hash() != other.RecomputeHash() {
						t.Fatalf("\t%s\tTest %d:\tShould not touch any other block.", failed, difficulty)
					}
					t.Logf("\t%s\tTest %d:\tShould not touch any other block.", success, difficulty)
				}

				t.Run(strings.Repeat("0", int(difficulty))+"-prefix", f)
			}
		}
	}
}

func Test_MineCancel(t *testing.T) {
	t.Log("Given the need to stop mining a block.")
	{
		t.Logf("\tTest 0:\tWhen the context is cancelled.")
		{
			block := database.NewBlock(1700000000000, nil, database.ZeroHash)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := block.Mine(ctx, database.MaxDifficulty, nil)
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest 0:\tShould get a cancelled error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get a cancelled error.", success)

			if block.Hash() != block.RecomputeHash() {
				t.Fatalf("\t%s\tTest 0:\tShould leave the block consistent.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the block consistent.", success)
		}

		t.Logf("\tTest 1:\tWhen the difficulty is too high.")
		{
			block := database.NewBlock(1700000000000, nil, database.ZeroHash)

			err := block.Mine(context.Background(), database.MaxDifficulty+1, nil)
			if !errors.Is(err, database.ErrDifficultyTooHigh) {
				t.Fatalf("\t%s\tTest 1:\tShould refuse to mine: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould refuse to mine.", success)
		}
	}
}

func Test_BlockData(t *testing.T) {
	trans := []database.Tx{
		database.NewRewardTx("kennedy", 100),
		database.NewTx("kennedy", "pavel", 20),
	}

	block := database.NewBlock(1700000000000, trans, database.ZeroHash)
	if err := block.Mine(context.Background(), 2, nil); err != nil {
		t.Fatalf("unable to mine block: %v", err)
	}

	t.Log("Given the need to serialize blocks.")
	{
		t.Logf("\tTest 0:\tWhen round tripping a block through JSON.")
		{
			data, err := json.Marshal(database.NewBlockData(block, 1))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to marshal the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to marshal the block.", success)

			if !strings.Contains(string(data), `"from":null`) {
				t.Fatalf("\t%s\tTest 0:\tShould encode the system mint as null: %s", failed, data)
			}
			t.Logf("\t%s\tTest 0:\tShould encode the system mint as null.", success)

			var blockData database.BlockData
			if err := json.Unmarshal(data, &blockData); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to unmarshal the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to unmarshal the block.", success)

			got := database.ToBlock(blockData)
			if got.Hash() != block.Hash() || got.RecomputeHash() != block.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould recompute the same hash after reload.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould recompute the same hash after reload.", success)

			if !got.Transactions()[0].IsReward() || got.Transactions()[1].IsReward() {
				t.Fatalf("\t%s\tTest 0:\tShould keep the sender of each transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the sender of each transaction.", success)
		}

		t.Logf("\tTest 1:\tWhen the stored transactions are changed.")
		{
			blockData := database.NewBlockData(block, 1)
			blockData.Trans[1].Amount = 2000

			got := database.ToBlock(blockData)
			if got.Hash() == got.RecomputeHash() {
				t.Fatalf("\t%s\tTest 1:\tShould detect the block was tampered with.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould detect the block was tampered with.", success)

			if block.Transactions()[1].Amount != 20 {
				t.Fatalf("\t%s\tTest 1:\tShould not change the original block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould not change the original block.", success)
		}
	}
}

func Test_TxEffect(t *testing.T) {
	type table struct {
		name    string
		tx      database.Tx
		account database.AccountID
		effect  int64
	}

	tt := []table{
		{name: "sender", tx: database.NewTx("a", "b", 20), account: "a", effect: -20},
		{name: "receiver", tx: database.NewTx("a", "b", 20), account: "b", effect: 20},
		{name: "unrelated", tx: database.NewTx("a", "b", 20), account: "c", effect: 0},
		{name: "self", tx: database.NewTx("a", "a", 20), account: "a", effect: 0},
		{name: "reward", tx: database.NewRewardTx("a", 100), account: "a", effect: 100},
		{name: "system", tx: database.NewRewardTx("a", 100), account: "", effect: 0},
		{name: "max receiver", tx: database.NewTx("a", "b", math.MaxUint64), account: "b", effect: math.MaxInt64},
		{name: "max sender", tx: database.NewTx("a", "b", math.MaxUint64), account: "a", effect: -math.MaxInt64},
		{name: "sign bit", tx: database.NewTx("c", "d", 1<<63), account: "d", effect: math.MaxInt64},
		{name: "max self", tx: database.NewTx("a", "a", math.MaxUint64), account: "a", effect: 0},
	}

	t.Log("Given the need to know how a transaction changes a balance.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					if got := tst.tx.Effect(tst.account); got != tst.effect {
						t.Fatalf("\t%s\tTest %d:\tShould get an effect of %d: got %d", failed, testID, tst.effect, got)
					}
					t.Logf("\t%s\tTest %d:\tShould get an effect of %d.", success, testID, tst.effect)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_AddBalance(t *testing.T) {
	type table struct {
		name    string
		balance int64
		change  int64
		exp     int64
	}

	tt := []table{
		{name: "credit", balance: 10, change: 5, exp: 15},
		{name: "debit", balance: 10, change: -20, exp: -10},
		{name: "overflow", balance: math.MaxInt64 - 1, change: 5, exp: math.MaxInt64},
		{name: "underflow", balance: math.MinInt64 + 1, change: -5, exp: math.MinInt64},
	}

	t.Log("Given the need to add to a balance without wrapping.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					if got := database.AddBalance(tst.balance, tst.change); got != tst.exp {
						t.Fatalf("\t%s\tTest %d:\tShould get %d: got %d", failed, testID, tst.exp, got)
					}
					t.Logf("\t%s\tTest %d:\tShould get %d.", success, testID, tst.exp)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_TxValidate(t *testing.T) {
	type table struct {
		name string
		tx   database.Tx
		err  error
	}

	tt := []table{
		{name: "valid", tx: database.NewTx("a", "b", database.MaxAmount)},
		{name: "reward", tx: database.NewRewardTx("a", 100)},
		{name: "amount", tx: database.NewTx("a", "b", database.MaxAmount+1), err: database.ErrAmountTooLarge},
		{name: "sender", tx: database.NewTx("a\xff", "b", 1), err: database.ErrInvalidAccount},
		{name: "receiver", tx: database.NewTx("a", "b\xfe", 1), err: database.ErrInvalidAccount},
		{name: "blank", tx: database.NewTx("a", " ", 1), err: database.ErrInvalidAccount},
	}

	t.Log("Given the need to reject transactions that can't be recorded.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen validating a %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					err := tst.tx.Validate()
					if tst.err == nil && err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be valid: %v", failed, testID, err)
					}
					if !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould get %v: got %v", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected result.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
