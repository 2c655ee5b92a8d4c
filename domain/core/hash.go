package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint identifies the exact input bytes an analysis run was fed.
type Fingerprint Hash

// NewFingerprint hashes raw dataset bytes
func NewFingerprint(data []byte) Fingerprint {
	return Fingerprint(NewHash(data))
}

func (f Fingerprint) String() string { return Hash(f).String() }
