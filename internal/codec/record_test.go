package codec

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestSerialize_Layout(t *testing.T) {
	r := SettlementRecord{
		Nonce:    0x0102030405060708,
		Fee:      big.NewInt(0x1122),
		User:     common.HexToAddress("0x00000000000000000000000000000000000000AA"),
		Provider: common.HexToAddress("0x00000000000000000000000000000000000000BB"),
	}
	data, err := Serialize(r)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(data) != RecordSize {
		t.Fatalf("length: got %d want %d", len(data), RecordSize)
	}

	// nonce, little-endian
	wantNonce := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(data[0:8], wantNonce) {
		t.Errorf("nonce bytes: got %x want %x", data[0:8], wantNonce)
	}
	// fee, little-endian in 16 bytes
	if data[8] != 0x22 || data[9] != 0x11 {
		t.Errorf("fee bytes: got %x", data[8:24])
	}
	// addresses: low byte of the 160-bit value comes first
	if data[24] != 0xAA {
		t.Errorf("user byte 0: got %x want aa", data[24])
	}
	if data[44] != 0xBB {
		t.Errorf("provider byte 0: got %x want bb", data[44])
	}
}

func TestRoundTrip(t *testing.T) {
	maxFee := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	cases := []SettlementRecord{
		{Nonce: 0, Fee: big.NewInt(0), User: common.Address{}, Provider: common.Address{}},
		{Nonce: 1, Fee: big.NewInt(2000), User: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), Provider: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")},
		{Nonce: ^uint64(0), Fee: maxFee, User: common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff"), Provider: common.HexToAddress("0x0000000000000000000000000000000000000001")},
	}
	for i, r := range cases {
		data, err := Serialize(r)
		if err != nil {
			t.Fatalf("case %d: Serialize: %v", i, err)
		}
		got, err := Deserialize(data)
		if err != nil {
			t.Fatalf("case %d: Deserialize: %v", i, err)
		}
		if got.Nonce != r.Nonce || got.Fee.Cmp(r.Fee) != 0 || got.User != r.User || got.Provider != r.Provider {
			t.Errorf("case %d: round trip mismatch: got %+v want %+v", i, got, r)
		}
	}
}

func TestDeserialize_BadLength(t *testing.T) {
	for _, n := range []int{0, 1, 63, 65, 128} {
		_, err := Deserialize(make([]byte, n))
		if !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("len %d: got %v want ErrMalformedRecord", n, err)
		}
	}
}

func TestSerialize_FeeTooLarge(t *testing.T) {
	r := SettlementRecord{
		Nonce: 1,
		Fee:   new(big.Int).Lsh(big.NewInt(1), 128), // 2^128, one past the max
	}
	if _, err := Serialize(r); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("got %v want ErrMalformedRecord", err)
	}
}
