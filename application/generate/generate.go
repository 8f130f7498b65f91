// Package generate builds random test data
package generate

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	lowers   = "abcdefghijklmnopqrstuvwxyz"
	uppers   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits   = "0123456789"
	specials = "!@#$%^&*()-_=+"

	defaultLength     = 8
	minPasswordLength = 4
)

// RandomString - prefix followed by length random letters and digits.
// length <= 0 uses 8.
func RandomString(prefix string, length int) string {
	if length <= 0 {
		length = defaultLength
	}
	return prefix + pick(lowers+uppers+digits, length)
}

// RandomEmail - <prefix><1000..9999>@<domain>
func RandomEmail(prefix, domain string) string {
	if prefix == "" {
		prefix = "test"
	}
	if domain == "" {
		domain = "example.com"
	}
	return fmt.Sprintf("%s%d@%s", prefix, 1000+intn(9000), domain)
}

// RandomPassword - contains at least one lower, upper, digit and special
// character. Lengths under 4 are raised to 4.
func RandomPassword(length int) string {
	if length < minPasswordLength {
		length = minPasswordLength
	}
	all := lowers + uppers + digits + specials
	chars := []byte(pick(lowers, 1) + pick(uppers, 1) + pick(digits, 1) + pick(specials, 1) + pick(all, length-minPasswordLength))

	// Fisher-Yates so the required classes do not sit at fixed positions
	for i := len(chars) - 1; i > 0; i-- {
		j := intn(i + 1)
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars)
}

// TimestampWord - prefix plus a letters-only word built from the digits
// of t (0 -> a, 1 -> b, ...). Distinct seconds give distinct words.
func TimestampWord(prefix string, t time.Time) string {
	stamp := t.Format("20060102150405")
	var b strings.Builder
	b.WriteString(prefix)
	for _, r := range stamp {
		b.WriteByte(lowers[r-'0'])
	}
	return b.String()
}

func pick(alphabet string, n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[intn(len(alphabet))]
	}
	return string(out)
}

func intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return int(v.Int64())
}
