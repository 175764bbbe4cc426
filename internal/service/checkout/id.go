package checkout

import "github.com/google/uuid"

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// uuid bytes 6 and 8 carry version and variant bits.
var idSourceBytes = [8]int{0, 1, 2, 3, 4, 5, 7, 9}

// NewOrderID returns an 8 character uppercase alphanumeric token.
func NewOrderID() string {
	u := uuid.New()
	out := make([]byte, len(idSourceBytes))
	for i, pos := range idSourceBytes {
		out[i] = idAlphabet[int(u[pos])%len(idAlphabet)]
	}
	return string(out)
}
