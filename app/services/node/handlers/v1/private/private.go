// Package private maintains the group of handlers for node operator access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ardanlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node operator endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	Chain  *chain.Chain
	Worker *worker.Worker
	NS     *nameservice.NameService
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.Chain.Blocks()
	latest := blocks[len(blocks)-1]

	status := struct {
		LatestBlockHash   string `json:"latest_block_hash"`
		LatestBlockNumber uint64 `json:"latest_block_number"`
		Difficulty        uint   `json:"difficulty"`
		MiningReward      uint64 `json:"mining_reward"`
		Pending           int    `json:"pending"`
	}{
		LatestBlockHash:   latest.Hash(),
		LatestBlockNumber: uint64(len(blocks) - 1),
		Difficulty:        h.Chain.Difficulty(),
		MiningReward:      h.Chain.MiningReward(),
		Pending:           h.Chain.PendingCount(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// BlocksByNumber returns all the blocks based on the specified to/from values.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest := strconv.Itoa(h.Chain.Length() - 1)

	fromStr := web.Param(r, "from")
	if fromStr == "latest" || fromStr == "" {
		fromStr = latest
	}

	toStr := web.Param(r, "to")
	if toStr == "latest" || toStr == "" {
		toStr = latest
	}

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	blocks := h.Chain.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Mine packages the pending transactions into a new block and mines it
// while the caller waits. The reward for the block is credited to the
// specified account in the next block.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := database.ToAccountID(string(h.NS.Resolve(web.Param(r, "account"))))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("mine", "traceid", web.GetTraceID(ctx), "reward", accountID)

	block, err := h.Chain.MinePendingTransactions(ctx, accountID)
	if err != nil {
		if ctx.Err() != nil {
			return errs.NewTrusted(fmt.Errorf("mining cancelled: %w", err), http.StatusServiceUnavailable)
		}
		return fmt.Errorf("mining: %w", err)
	}

	// Another miner may have appended after this block, so find its number.
	blocks := h.Chain.Blocks()
	number := len(blocks) - 1
	for ; number > 0; number-- {
		if blocks[number].Hash() == block.Hash() {
			break
		}
	}

	return web.Respond(ctx, w, database.NewBlockData(block, uint64(number)), http.StatusOK)
}

// SignalMining signals the worker to mine a block in the background.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// CancelMining signals the worker to stop a mining operation in progress.
func (h Handlers) CancelMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Worker.SignalCancelMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining cancel signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
