// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"time"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/accounts"
	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	Chain   *chain.Chain
	Genesis genesis.Genesis
	NS      *nameservice.NameService
	WS      websocket.Upgrader
	Evts    *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// GenesisInfo returns the genesis information.
func (h Handlers) GenesisInfo(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Genesis, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the pending pool. No balance
// check is performed.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return err
	}

	from, err := database.ToAccountID(string(h.NS.Resolve(ntx.From)))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	to, err := database.ToAccountID(string(h.NS.Resolve(ntx.To)))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tran := database.NewTx(from, to, ntx.Amount)

	h.Log.Infow("submit tran", "traceid", web.GetTraceID(ctx), "from", from, "to", to, "amount", ntx.Amount)
	if err := h.Chain.CreateTransaction(tran); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status  string `json:"status"`
		Pending int    `json:"pending"`
	}{
		Status:  "transaction added to pending pool",
		Pending: h.Chain.PendingCount(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pending returns the set of transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pending := h.Chain.Pending()

	trans := make([]tx, len(pending))
	for i, tran := range pending {
		trans[i] = toTx(h.NS, tran)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Balances returns the current balances for all accounts or for the
// specified account.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var blkAccounts map[database.AccountID]accounts.Info

	switch name := web.Param(r, "account"); name {
	case "":
		blkAccounts = h.Chain.Accounts()

	default:
		accountID, err := database.ToAccountID(string(h.NS.Resolve(name)))
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		blkAccounts = map[database.AccountID]accounts.Info{
			accountID: h.Chain.QueryAccount(accountID),
		}
	}

	bals := make([]balance, 0, len(blkAccounts))
	for accountID, info := range blkAccounts {
		bals = append(bals, balance{
			Account: accountID,
			Name:    h.NS.Lookup(accountID),
			Balance: info.Balance,
			Sent:    info.Sent,
			Recv:    info.Recv,
		})
	}

	resp := balances{
		LatestBlock: h.Chain.LatestBlock().Hash(),
		Pending:     h.Chain.PendingCount(),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByAccount returns the blocks holding transactions for the specified
// account, or every block when no account is provided.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var accountID database.AccountID
	if name := web.Param(r, "account"); name != "" {
		accountID = h.NS.Resolve(name)
	}

	dbBlocks := h.Chain.QueryBlocksByAccount(accountID)
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blockData := range dbBlocks {
		blocks[i] = toBlock(h.NS, blockData)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// LatestBlock returns the last block of the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.Chain.Blocks()
	number := len(blocks) - 1
	blockData := database.NewBlockData(blocks[number], uint64(number))

	return web.Respond(ctx, w, toBlock(h.NS, blockData), http.StatusOK)
}

// Validate reports whether the chain is valid.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := validation{
		Valid:  true,
		Length: h.Chain.Length(),
	}

	if err := h.Chain.Validate(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
