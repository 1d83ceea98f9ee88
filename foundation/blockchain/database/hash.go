package database

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// ZeroHash represents a hash code of zeros. It is the previous block hash
// of the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// hashTx is the canonical form of a transaction covered by the hash.
type hashTx struct {
	IsAccount bool
	From      []byte
	To        []byte
	Amount    uint64
}

// hashData is the canonical form of the block fields covered by the hash.
// The order of the fields is part of the hash and must not change. RLP
// encodes strings as length prefixed raw bytes so no two different
// addresses share an encoding.
type hashData struct {
	Trans         []hashTx
	TimeStamp     uint64
	PrevBlockHash []byte
	Nonce         uint64
}

// Hash returns the sha256 digest of the specified block fields as a lowercase
// hex string of 64 characters.
func Hash(trans []Tx, timeStamp int64, prevBlockHash string, nonce uint64) string {

	// A nil and an empty list encode the same.
	hts := make([]hashTx, len(trans))
	for i, tx := range trans {
		from, isAccount := tx.From.Account()
		hts[i] = hashTx{
			IsAccount: isAccount,
			From:      []byte(from),
			To:        []byte(tx.To),
			Amount:    tx.Amount,
		}
	}

	hd := hashData{
		Trans:         hts,
		TimeStamp:     uint64(timeStamp),
		PrevBlockHash: []byte(prevBlockHash),
		Nonce:         nonce,
	}

	// Every field is bytes, a bool or an unsigned integer so encoding can't fail.
	data, err := rlp.EncodeToBytes(hd)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// The first difficulty characters of the hash need to be 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if len(hash) != len(ZeroHash) || difficulty > uint(len(hash)) {
		return false
	}

	return hash[:difficulty] == ZeroHash[:difficulty]
}
