// Package codec serializes settlement records into the fixed 64-byte wire
// layout the on-chain verifier expects. Field order and widths are frozen:
// reordering them breaks verification.
package codec

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RecordSize is the serialized length of a SettlementRecord.
const RecordSize = 64

const (
	nonceWidth   = 8
	feeWidth     = 16
	addressWidth = 20
)

// ErrMalformedRecord reports a byte slice that cannot hold a settlement record.
var ErrMalformedRecord = errors.New("malformed settlement record")

// SettlementRecord is the atomic unit of fee authorization: the client signs
// its hash, the provider presents the signature at settlement time.
type SettlementRecord struct {
	Nonce    uint64
	Fee      *big.Int // < 2^128
	User     common.Address
	Provider common.Address
}

// Serialize packs the record into its canonical 64-byte little-endian layout:
// nonce (8) | fee (16) | user (20) | provider (20).
func Serialize(r SettlementRecord) ([]byte, error) {
	if r.Fee == nil || r.Fee.Sign() < 0 || r.Fee.BitLen() > feeWidth*8 {
		return nil, fmt.Errorf("%w: fee out of range", ErrMalformedRecord)
	}

	out := make([]byte, RecordSize)
	putUint64LE(out[0:nonceWidth], r.Nonce)
	putBigLE(out[nonceWidth:nonceWidth+feeWidth], r.Fee)
	putAddressLE(out[24:24+addressWidth], r.User)
	putAddressLE(out[44:44+addressWidth], r.Provider)
	return out, nil
}

// Deserialize is the inverse of Serialize. Input must be exactly 64 bytes.
func Deserialize(data []byte) (SettlementRecord, error) {
	if len(data) != RecordSize {
		return SettlementRecord{}, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedRecord, len(data), RecordSize)
	}

	var r SettlementRecord
	r.Nonce = getUint64LE(data[0:nonceWidth])
	r.Fee = getBigLE(data[nonceWidth : nonceWidth+feeWidth])
	r.User = getAddressLE(data[24 : 24+addressWidth])
	r.Provider = getAddressLE(data[44 : 44+addressWidth])
	return r, nil
}

func putUint64LE(dst []byte, v uint64) {
	for i := range dst {
		dst[i] = byte(v >> (8 * i))
	}
}

func getUint64LE(src []byte) uint64 {
	var v uint64
	for i := len(src) - 1; i >= 0; i-- {
		v = v<<8 | uint64(src[i])
	}
	return v
}

// putBigLE writes v into dst as little-endian, zero-padded to len(dst).
func putBigLE(dst []byte, v *big.Int) {
	be := v.Bytes() // big-endian, minimal
	for i, b := range be {
		dst[len(be)-1-i] = b
	}
}

func getBigLE(src []byte) *big.Int {
	be := make([]byte, len(src))
	for i, b := range src {
		be[len(src)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}

// Addresses travel as the little-endian encoding of their 160-bit integer
// value, so the natural big-endian address bytes are reversed on the wire.
func putAddressLE(dst []byte, addr common.Address) {
	for i := 0; i < addressWidth; i++ {
		dst[i] = addr[addressWidth-1-i]
	}
}

func getAddressLE(src []byte) common.Address {
	var addr common.Address
	for i := 0; i < addressWidth; i++ {
		addr[i] = src[addressWidth-1-i]
	}
	return addr
}
