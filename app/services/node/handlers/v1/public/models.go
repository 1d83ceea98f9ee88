package public

import (
	"github.com/ardanlabs/powchain/business/sys/validate"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/nameservice"
)

type balance struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance int64              `json:"balance"`
	Sent    int                `json:"sent"`
	Recv    int                `json:"recv"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Pending     int       `json:"pending"`
	Balances    []balance `json:"balances"`
}

type tx struct {
	From     string             `json:"from"`
	FromName string             `json:"from_name"`
	To       database.AccountID `json:"to"`
	ToName   string             `json:"to_name"`
	Amount   uint64             `json:"amount"`
}

type block struct {
	Number        uint64 `json:"number"`
	Hash          string `json:"hash"`
	PrevBlockHash string `json:"prev_block_hash"`
	TimeStamp     int64  `json:"timestamp"`
	Nonce         uint64 `json:"nonce"`
	Transactions  []tx   `json:"trans"`
}

type validation struct {
	Valid  bool   `json:"valid"`
	Length int    `json:"length"`
	Error  string `json:"error,omitempty"`
}

// NewTx is what we require from clients when submitting a transaction.
type NewTx struct {
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Amount uint64 `json:"amount" validate:"lte=9223372036854775807"`
}

// Validate checks the data in the model is considered clean.
func (ntx NewTx) Validate() error {
	return validate.Check(ntx)
}

// =============================================================================

func toTx(ns *nameservice.NameService, tran database.Tx) tx {
	fromName := "system"
	if accountID, ok := tran.From.Account(); ok {
		fromName = ns.Lookup(accountID)
	}

	return tx{
		From:     tran.From.String(),
		FromName: fromName,
		To:       tran.To,
		ToName:   ns.Lookup(tran.To),
		Amount:   tran.Amount,
	}
}

func toBlock(ns *nameservice.NameService, blockData database.BlockData) block {
	trans := make([]tx, len(blockData.Trans))
	for i, tran := range blockData.Trans {
		trans[i] = toTx(ns, tran)
	}

	return block{
		Number:        blockData.Number,
		Hash:          blockData.Hash,
		PrevBlockHash: blockData.Header.PrevBlockHash,
		TimeStamp:     blockData.Header.TimeStamp,
		Nonce:         blockData.Header.Nonce,
		Transactions:  trans,
	}
}
