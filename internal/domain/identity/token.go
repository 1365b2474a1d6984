package identity

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// tokenKeyBytes gives 40 hex characters once encoded
const tokenKeyBytes = 20

// APIToken is the long-lived token a partner client sends as
// "Authorization: Token <key>". A user owns at most one.
type APIToken struct {
	Key       string
	UserID    int64
	CreatedAt time.Time
}

// NewAPIToken generates a random token for the user
func NewAPIToken(userID int64) (*APIToken, error) {
	buf := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return &APIToken{
		Key:       hex.EncodeToString(buf),
		UserID:    userID,
		CreatedAt: time.Now(),
	}, nil
}
