// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date"`          // Timestamp of the genesis block, the clock when zero.
	Difficulty   uint      `json:"difficulty"`    // How difficult it needs to be to solve the work problem.
	MiningReward uint64    `json:"mining_reward"` // Reward for mining a block.
	StrictPOW    bool      `json:"strict_pow"`    // Validation also checks every block was mined.
}

// Default returns the genesis settings used when no file exists.
func Default() Genesis {
	return Genesis{
		Difficulty:   chain.DefaultDifficulty,
		MiningReward: chain.DefaultMiningReward,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. If the file doesn't exist the
// default settings are returned.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("unmarshal %s: %w", path, err)
	}

	return genesis, nil
}

// ChainConfig returns the chain configuration described by the genesis file.
func (g Genesis) ChainConfig() chain.Config {
	return chain.Config{
		Difficulty:   g.Difficulty,
		MiningReward: g.MiningReward,
		StrictPOW:    g.StrictPOW,
		GenesisTime:  g.Date,
	}
}
