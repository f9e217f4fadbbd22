package gateway

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewOrderCode combines the unix time in seconds with three random digits.
// The result stays well below 2^53.
func NewOrderCode(now time.Time) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return 0, fmt.Errorf("failed to generate order code: %w", err)
	}
	return now.Unix()*1000 + n.Int64(), nil
}
