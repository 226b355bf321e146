package domain

// KeyRing holds the ordered API credentials for one external service and
// tracks which one is currently active. Rotation is cyclic: advancing past
// the last key wraps back to the first.
//
// A KeyRing is created once per provider at startup and shared by every
// caller of that provider. Rotation is a plain mutation with no locking:
// concurrent rotations can interleave, which at worst uses a key "out of
// turn". Keys are stateless credentials, so nothing is corrupted.
type KeyRing struct {
	keys   []string
	active int
}

// NewKeyRing creates a ring over the given keys.
// Blank entries are discarded; the ring may end up empty, in which case
// Current reports ErrNoKeysConfigured.
func NewKeyRing(keys []string) *KeyRing {
	kept := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			kept = append(kept, k)
		}
	}
	return &KeyRing{keys: kept}
}

// Current returns the active key.
func (r *KeyRing) Current() (string, error) {
	if len(r.keys) == 0 {
		return "", ErrNoKeysConfigured
	}
	return r.keys[r.active], nil
}

// Rotate advances the active index by one, wrapping past the end.
// It returns true when the index wrapped to 0, meaning a full cycle of
// keys has been exhausted. Callers use this to log a diagnostic; it is
// not a hard failure.
func (r *KeyRing) Rotate() bool {
	if len(r.keys) == 0 {
		return false
	}
	r.active = (r.active + 1) % len(r.keys)
	return r.active == 0
}

// Size returns the number of configured keys. Callers use it to bound
// rate-limit retry attempts.
func (r *KeyRing) Size() int {
	return len(r.keys)
}
