package escrow

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// Account seeds, matching the on-chain program's PDA seeds so addresses
// derived here line up with addresses derived by any other caller.
var (
	configSeed = []byte("config")
	jobSeed    = []byte("job")
)

// Key is a 32-byte account key. It identifies both participants
// (admin, ops, treasury, buyer, operator) and derived record addresses.
type Key [32]byte

// String renders the key in base58.
func (k Key) String() string {
	return base58.Encode(k[:])
}

// IsZero reports whether the key is the all-zero key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// MarshalText implements encoding.TextMarshaler so keys serialize as base58
// in JSON payloads and events.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a base58-encoded key.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey decodes a base58 key string.
func ParseKey(s string) (Key, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Key{}, fmt.Errorf("decode key: %w", err)
	}
	if len(raw) != len(Key{}) {
		return Key{}, fmt.Errorf("decode key: expected %d bytes, got %d", len(Key{}), len(raw))
	}
	var k Key
	copy(k[:], raw)
	return k, nil
}

// DeriveKey hashes the given seed parts into an account key.
func DeriveKey(seeds ...[]byte) Key {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// ConfigAddress returns the fixed address of the singleton config record.
func ConfigAddress() Key {
	return DeriveKey(configSeed)
}

// JobAddress derives the deterministic address of the job record for a
// (buyer, jobID) pair. Re-deriving never needs a directory service.
func JobAddress(buyer Key, jobID uint64) Key {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], jobID)
	return DeriveKey(jobSeed, buyer[:], id[:])
}
