package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v, such as a data snapshot. Map keys
// are encoded in sorted order, so equal snapshots hash equally.
func HashJSON(v any) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(v); err != nil {
		return "", err
	}
	return sum(h), nil
}

// hashKey returns "<prefix>:<hash>" over the JSON encoding of parts.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	json.NewEncoder(h).Encode(parts)
	return prefix + ":" + sum(h)
}

func sum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}
