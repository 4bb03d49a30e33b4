// Package addr derives deterministic record addresses from seeds.
//
// Each ledger record (protocol singleton, launch, position, bundler) lives at
// an address derived from its identifying seeds, so the same logical record
// always resolves to the same key in the external store.
package addr

import (
	"crypto/sha256"
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// programTag namespaces derived addresses to this ledger.
const programTag = "diamondpad"

// marker mirrors the Solana PDA derivation marker: derived addresses must not
// collide with real wallet keys, so the bump search stops at the first
// off-curve point.
const marker = "ProgramDerivedAddress"

// Derive computes a base58 record address from seeds. A bump byte is appended
// and decremented until the SHA256 digest is not a valid ed25519 curve point,
// guaranteeing the address cannot be a signing key.
func Derive(seeds ...[]byte) string {
	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0, 64)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, []byte(programTag)...)
		data = append(data, []byte(marker)...)

		hash := sha256.Sum256(data)

		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:])
		}
	}

	return ""
}

// ProtocolAddress returns the singleton protocol record address.
func ProtocolAddress() string {
	return Derive([]byte("protocol"))
}

// LaunchAddress returns the record address for a launch id.
func LaunchAddress(launchID uint64) string {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], launchID)
	return Derive([]byte("launch"), id[:])
}

// PositionAddress returns the record address for a (launch, holder) pair.
func PositionAddress(launch, holder string) string {
	return Derive([]byte("position"), []byte(launch), []byte(holder))
}

// BundlerAddress returns the record address for a flagged wallet.
func BundlerAddress(wallet string) string {
	return Derive([]byte("bundler"), []byte(wallet))
}

// IsWalletAddress reports whether s decodes as a 32-byte base58 key, the
// shape of a verified caller identity.
func IsWalletAddress(s string) bool {
	decoded, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
