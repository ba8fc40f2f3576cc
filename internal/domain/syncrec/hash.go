package syncrec

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes the content hash of a record: SHA-256 over its canonical
// JSON encoding. Struct field order is fixed at compile time, so the
// encoding — and therefore the hash — is stable across runs for unchanged
// content. Changing any one field changes the hash.
func Hash(rec Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("hash record %q: %w", rec.NaturalKey(), err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
