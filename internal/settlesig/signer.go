// Package settlesig implements the settlement signing scheme: EdDSA over the
// BN254 twisted Edwards curve with a MiMC message hash. The scheme is chosen
// for the on-chain settlement verifier, which checks batched signatures inside
// a ZK circuit; a generic bytes hash cannot be verified there efficiently.
//
// This engine is deliberately separate from the secp256k1/keccak recovery used
// for provider response signatures (internal/verify); the two serve different
// cryptographic requirements and share no interface.
package settlesig

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/ethereum/go-ethereum/common"

	"github.com/0gfoundation/0g-serving-client/internal/codec"
)

// ErrInvalidKeyMaterial reports key bytes or packed halves that cannot form a
// valid curve key.
var ErrInvalidKeyMaterial = errors.New("invalid key material")

const (
	// SeedSize is the private seed length; the full private key is
	// re-derived deterministically from it.
	SeedSize = 32
	// PublicKeySize is the compressed public key length.
	PublicKeySize = 32
	// SignatureSize is the packed signature length (compressed R || S).
	SignatureSize = 64

	halfSize = 16
)

// KeyPair is a settlement signing keypair. The seed is what gets persisted
// (encrypted) in remote account metadata; the derived key is kept in memory.
type KeyPair struct {
	priv *eddsa.PrivateKey
	seed [SeedSize]byte
}

// GenerateKeyPair samples a fresh keypair from crypto/rand.
func GenerateKeyPair() (*KeyPair, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("sample seed: %w", err)
	}
	return FromSeed(seed)
}

// FromSeed derives the keypair deterministically from a 32-byte seed.
func FromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d", ErrInvalidKeyMaterial, SeedSize, len(seed))
	}
	priv, err := eddsa.GenerateKey(bytes.NewReader(seed))
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	kp := &KeyPair{priv: priv}
	copy(kp.seed[:], seed)
	return kp, nil
}

// Seed returns a copy of the private seed.
func (kp *KeyPair) Seed() []byte {
	out := make([]byte, SeedSize)
	copy(out, kp.seed[:])
	return out
}

// PublicKey returns the derived public key.
func (kp *KeyPair) PublicKey() *eddsa.PublicKey {
	return &kp.priv.PublicKey
}

// PackedPublicKey splits the compressed public key into two 128-bit integers.
// Remote account metadata stores integers, not byte blobs.
func (kp *KeyPair) PackedPublicKey() [2]*big.Int {
	return packHalves(kp.priv.PublicKey.Bytes())
}

// PackedSeed splits the private seed into two 128-bit integers.
func (kp *KeyPair) PackedSeed() [2]*big.Int {
	return packHalves(kp.seed[:])
}

// UnpackSeed rebuilds a keypair from two packed seed halves.
func UnpackSeed(halves [2]*big.Int) (*KeyPair, error) {
	seed, err := unpackHalves(halves)
	if err != nil {
		return nil, err
	}
	return FromSeed(seed)
}

// UnpackPublicKey rebuilds a public key from two packed halves.
func UnpackPublicKey(halves [2]*big.Int) (*eddsa.PublicKey, error) {
	raw, err := unpackHalves(halves)
	if err != nil {
		return nil, err
	}
	pub := new(eddsa.PublicKey)
	if _, err := pub.SetBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	return pub, nil
}

// Sign signs each record independently; batch signing is a convenience, not a
// combined signature. Each signature covers the MiMC digest of the full
// serialized record, fee included.
func (kp *KeyPair) Sign(records []codec.SettlementRecord) ([][]byte, error) {
	sigs := make([][]byte, 0, len(records))
	for i, r := range records {
		digest, err := recordDigest(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		sig, err := kp.priv.Sign(digest, mimc.NewMiMC())
		if err != nil {
			return nil, fmt.Errorf("record %d: sign: %w", i, err)
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// Verify checks a single record signature against a public key.
func Verify(pub *eddsa.PublicKey, r codec.SettlementRecord, sig []byte) (bool, error) {
	if len(sig) != SignatureSize {
		return false, fmt.Errorf("%w: signature must be %d bytes, got %d", ErrInvalidKeyMaterial, SignatureSize, len(sig))
	}
	digest, err := recordDigest(r)
	if err != nil {
		return false, err
	}
	return pub.Verify(sig, digest, mimc.NewMiMC())
}

// CommitmentHash computes the algebraic request commitment over the fixed
// nonce(8) | user(20) | provider(20) tuple. Each field enters the MiMC sponge
// as one canonical 32-byte field element, so the digest can be recomputed by
// the settlement circuit.
func CommitmentHash(nonce uint64, user, provider common.Address) []byte {
	h := mimc.NewMiMC()
	writeField(h, new(big.Int).SetUint64(nonce))
	writeField(h, new(big.Int).SetBytes(user[:]))
	writeField(h, new(big.Int).SetBytes(provider[:]))
	return h.Sum(nil)
}

// recordDigest hashes the full record: nonce, fee, user, provider.
func recordDigest(r codec.SettlementRecord) ([]byte, error) {
	if r.Fee == nil || r.Fee.Sign() < 0 || r.Fee.BitLen() > 128 {
		return nil, fmt.Errorf("%w: fee out of range", codec.ErrMalformedRecord)
	}
	h := mimc.NewMiMC()
	writeField(h, new(big.Int).SetUint64(r.Nonce))
	writeField(h, r.Fee)
	writeField(h, new(big.Int).SetBytes(r.User[:]))
	writeField(h, new(big.Int).SetBytes(r.Provider[:]))
	return h.Sum(nil), nil
}

// writeField feeds one value to MiMC as a 32-byte canonical block. All inputs
// are at most 160 bits, well below the bn254 scalar field modulus.
func writeField(h interface{ Write(p []byte) (int, error) }, v *big.Int) {
	var block [32]byte
	v.FillBytes(block[:])
	h.Write(block[:]) //nolint:errcheck
}

func packHalves(raw []byte) [2]*big.Int {
	return [2]*big.Int{
		new(big.Int).SetBytes(raw[:halfSize]),
		new(big.Int).SetBytes(raw[halfSize:]),
	}
}

func unpackHalves(halves [2]*big.Int) ([]byte, error) {
	raw := make([]byte, 2*halfSize)
	for i, half := range halves {
		if half == nil || half.Sign() < 0 || half.BitLen() > halfSize*8 {
			return nil, fmt.Errorf("%w: packed half %d out of range", ErrInvalidKeyMaterial, i)
		}
		half.FillBytes(raw[i*halfSize : (i+1)*halfSize])
	}
	return raw, nil
}
