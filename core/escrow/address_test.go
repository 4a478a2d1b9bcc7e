package escrow

import "testing"

func TestJobAddressDeterminism(t *testing.T) {
	buyer := DeriveKey([]byte("test"), []byte("buyer"))
	other := DeriveKey([]byte("test"), []byte("other"))

	if JobAddress(buyer, 7) != JobAddress(buyer, 7) {
		t.Error("same (buyer, jobID) must derive the same address")
	}
	if JobAddress(buyer, 7) == JobAddress(buyer, 8) {
		t.Error("different jobIDs must derive different addresses")
	}
	if JobAddress(buyer, 7) == JobAddress(other, 7) {
		t.Error("different buyers must derive different addresses")
	}
	if JobAddress(buyer, 7) == ConfigAddress() {
		t.Error("job addresses must not collide with the config address")
	}
}

func TestConfigAddressFixed(t *testing.T) {
	if ConfigAddress() != ConfigAddress() {
		t.Error("config address must be stable")
	}
	if ConfigAddress().IsZero() {
		t.Error("config address must not be the zero key")
	}
}

func TestKeyRoundTrip(t *testing.T) {
	key := DeriveKey([]byte("round"), []byte("trip"))
	parsed, err := ParseKey(key.String())
	if err != nil {
		t.Fatalf("ParseKey(%q) error: %v", key.String(), err)
	}
	if parsed != key {
		t.Errorf("round trip mismatch: %v != %v", parsed, key)
	}

	if _, err := ParseKey("not-base58-0OIl"); err == nil {
		t.Error("expected error for invalid base58")
	}
	if _, err := ParseKey("abc"); err == nil {
		t.Error("expected error for wrong length")
	}
}
