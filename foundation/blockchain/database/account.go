package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidAccount is returned for an account id that can't be recorded.
var ErrInvalidAccount = errors.New("invalid account id")

// AccountID represents an address on the blockchain. It is an opaque value,
// nothing binds it to a key or identity.
type AccountID string

// ToAccountID converts a string into an account id, rejecting blank values.
func ToAccountID(s string) (AccountID, error) {
	accountID := AccountID(strings.TrimSpace(s))
	if err := accountID.Validate(); err != nil {
		return "", err
	}

	return accountID, nil
}

// Validate checks the account id is not blank and is valid UTF-8. Stored
// blocks are JSON encoded, which would replace invalid bytes.
func (a AccountID) Validate() error {
	if strings.TrimSpace(string(a)) == "" {
		return fmt.Errorf("account id is empty: %w", ErrInvalidAccount)
	}

	if !utf8.ValidString(string(a)) {
		return fmt.Errorf("account id %q is not valid UTF-8: %w", string(a), ErrInvalidAccount)
	}

	return nil
}

// =============================================================================

// Sender identifies where the value of a transaction comes from. It is either
// an account or the system, which mints the reward for mining a block.
type Sender struct {
	accountID AccountID
	isAccount bool
}

// SystemMint is the sender of every reward transaction.
var SystemMint = Sender{}

// SenderAccount constructs a sender for the specified account.
func SenderAccount(accountID AccountID) Sender {
	return Sender{
		accountID: accountID,
		isAccount: true,
	}
}

// Account returns the account for the sender. The boolean is false when
// the sender is the system mint.
func (s Sender) Account() (AccountID, bool) {
	return s.accountID, s.isAccount
}

// IsSystem reports whether the sender is the system mint.
func (s Sender) IsSystem() bool {
	return !s.isAccount
}

// Is reports whether the sender is the specified account.
func (s Sender) Is(accountID AccountID) bool {
	return s.isAccount && s.accountID == accountID
}

// String implements the fmt.Stringer interface for logging.
func (s Sender) String() string {
	if !s.isAccount {
		return "system"
	}

	return string(s.accountID)
}

// MarshalJSON implements the json.Marshaler interface. The system mint is
// encoded as null.
func (s Sender) MarshalJSON() ([]byte, error) {
	if !s.isAccount {
		return []byte("null"), nil
	}

	return json.Marshal(string(s.accountID))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *Sender) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = SystemMint
		return nil
	}

	var accountID string
	if err := json.Unmarshal(data, &accountID); err != nil {
		return err
	}

	*s = SenderAccount(AccountID(accountID))
	return nil
}
