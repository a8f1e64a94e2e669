package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Keyer derives cache keys from request URLs. Document bodies and HEAD
// probe results live under separate keys so a probe never shadows a body.
type Keyer interface {
	DocumentKey(url string) string
	ProbeKey(url string) string
}

// DefaultKeyer keys entries as "doc:<sha256(url)>" and "head:<sha256(url)>".
type DefaultKeyer struct{}

func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DocumentKey(url string) string { return "doc:" + Hash([]byte(url)) }
func (DefaultKeyer) ProbeKey(url string) string    { return "head:" + Hash([]byte(url)) }
