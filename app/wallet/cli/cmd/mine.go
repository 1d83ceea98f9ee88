package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var privateURL string

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions, rewarding your account.",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&privateURL, "url", "u", "http://localhost:9080", "Url of the node's private api.")
}

func mineRun(cmd *cobra.Command, args []string) {
	_, accountID, err := loadAccount()
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/mining/mine/%s", privateURL, accountID), "application/json", nil)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node returned %s", resp.Status)
	}

	var blockData database.BlockData
	if err := json.NewDecoder(resp.Body).Decode(&blockData); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("mined block %d: %s nonce %d txs %d\n", blockData.Number, blockData.Hash, blockData.Header.Nonce, len(blockData.Trans))
}
