package fingerprint

import (
	"encoding/base64"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// SecretPrint is one referenced secret's identity and last-update time, as
// recorded in a container's secret-fingerprint label.
type SecretPrint struct {
	ID        string `msgpack:"id"`
	UpdatedAt int64  `msgpack:"updated_at"`
}

// SecretFingerprint is the full fingerprint: every referenced secret's
// print, always compared and encoded in sorted order so the result is
// independent of the order secrets were declared or listed in.
type SecretFingerprint []SecretPrint

// Sort orders a fingerprint ascending by (id, updated_at) in place.
func Sort(fp SecretFingerprint) {
	sort.Slice(fp, func(i, j int) bool {
		if fp[i].ID != fp[j].ID {
			return fp[i].ID < fp[j].ID
		}
		return fp[i].UpdatedAt < fp[j].UpdatedAt
	})
}

// Equal reports whether two fingerprints contain the same prints, ignoring
// input order (both are sorted before comparison).
func Equal(a, b SecretFingerprint) bool {
	if len(a) != len(b) {
		return false
	}

	sortedA := append(SecretFingerprint(nil), a...)
	sortedB := append(SecretFingerprint(nil), b...)
	Sort(sortedA)
	Sort(sortedB)

	for i := range sortedA {
		if sortedA[i] != sortedB[i] {
			return false
		}
	}
	return true
}

// EncodeSecretFingerprint sorts fp and serializes it as base64
// URL-safe-no-pad of its message-packed form.
func EncodeSecretFingerprint(fp SecretFingerprint) (string, error) {
	sorted := append(SecretFingerprint(nil), fp...)
	Sort(sorted)

	packed, err := msgpack.Marshal(sorted)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(packed), nil
}

// DecodeSecretFingerprint decodes a label value produced by
// EncodeSecretFingerprint. Any failure is swallowed and reported as
// ok=false, identically to DecodeInjectTree.
func DecodeSecretFingerprint(encoded string) (SecretFingerprint, bool) {
	packed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false
	}

	var fp SecretFingerprint
	if err := msgpack.Unmarshal(packed, &fp); err != nil {
		return nil, false
	}

	return fp, true
}
