package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomCode returns n characters drawn uniformly from idAlphabet.
func randomCode(n int) string {
	b := make([]byte, n)
	alphabet := big.NewInt(int64(len(idAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand: %v", err))
		}
		b[i] = idAlphabet[idx.Int64()]
	}
	return string(b)
}

// orderID formats "ORD-<last 6 ms digits>-<3 chars>".
func orderID(now time.Time) string {
	return fmt.Sprintf("ORD-%06d-%s", now.UnixMilli()%1_000_000, randomCode(3))
}

func rewardCode() string {
	return "REWARD-" + randomCode(6)
}

