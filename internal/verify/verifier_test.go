package verify

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-serving-client/internal/attest"
	"github.com/0gfoundation/0g-serving-client/internal/cache"
	"github.com/0gfoundation/0g-serving-client/internal/chain"
	"github.com/0gfoundation/0g-serving-client/internal/provider"
)

// The broker hands the HTTP provider client to the verifier through this
// interface; keep the method sets in lockstep.
var _ ProviderAPI = (*provider.Client)(nil)

var testProvider = common.HexToAddress("0x2222222222222222222222222222222222222222")

type fakeChain struct {
	quoteValid bool
}

func (f *fakeChain) VerifyQuote(ctx context.Context, rawQuote []byte) (bool, error) {
	return f.quoteValid, nil
}

func (f *fakeChain) GetAccount(ctx context.Context, user, provider common.Address) (chain.InferenceServingAccount, error) {
	return chain.InferenceServingAccount{}, nil
}

func (f *fakeChain) TransferFund(ctx context.Context, provider common.Address, amount *big.Int) error {
	return nil
}

func (f *fakeChain) AcknowledgeProviderSigner(ctx context.Context, provider, signer common.Address) error {
	return nil
}

func (f *fakeChain) UserAddress() common.Address { return common.Address{} }

type fakeProviderAPI struct {
	report      provider.AttestationReport
	signature   string
	reportCalls int
	sigCalls    int
}

func (f *fakeProviderAPI) GetAttestationReport(ctx context.Context, model string) (provider.AttestationReport, error) {
	f.reportCalls++
	return f.report, nil
}

func (f *fakeProviderAPI) GetSignature(ctx context.Context, responseID, model string) (provider.ResponseSignature, error) {
	f.sigCalls++
	return provider.ResponseSignature{Signature: f.signature}, nil
}

func newTestVerifier(t *testing.T, quoteValid bool) *Verifier {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := cache.New(rdb, "test:")
	a := attest.NewVerifier(&fakeChain{quoteValid: quoteValid}, c, "", 16600, zap.NewNop())
	return NewVerifier(a, c, zap.NewNop())
}

// signContent produces an EIP-191 signature the way a provider broker does.
func signContent(t *testing.T, key *ecdsa.PrivateKey, content []byte) string {
	t.Helper()
	sig, err := crypto.Sign(hashMessage(content), key)
	if err != nil {
		t.Fatal(err)
	}
	sig[64] += 27
	return hexutil.Encode(sig)
}

func verifiableService() chain.InferenceServingService {
	return chain.InferenceServingService{
		Provider:      testProvider,
		Model:         "llama-3.3-70b",
		Verifiability: "TeeML",
		InputPrice:    big.NewInt(1),
		OutputPrice:   big.NewInt(1),
	}
}

func TestVerifyResponseValidSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	signer := crypto.PubkeyToAddress(key.PublicKey)
	content := []byte("the moon is made of cheese")

	api := &fakeProviderAPI{
		report:    provider.AttestationReport{SigningAddress: signer.Hex(), IntelQuote: "q"},
		signature: signContent(t, key, content),
	}
	v := newTestVerifier(t, true)

	ok, err := v.VerifyResponse(context.Background(), testProvider, verifiableService(), api, content, "chatcmpl-1")
	if err != nil {
		t.Fatalf("VerifyResponse: %v", err)
	}
	if !ok {
		t.Error("genuine signature rejected")
	}
}

func TestVerifyResponseTamperedContent(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	signer := crypto.PubkeyToAddress(key.PublicKey)

	api := &fakeProviderAPI{
		report:    provider.AttestationReport{SigningAddress: signer.Hex(), IntelQuote: "q"},
		signature: signContent(t, key, []byte("original content")),
	}
	v := newTestVerifier(t, true)

	ok, err := v.VerifyResponse(context.Background(), testProvider, verifiableService(), api, []byte("tampered content"), "chatcmpl-1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("tampered content accepted")
	}
}

func TestVerifyResponseWrongSigner(t *testing.T) {
	providerKey, _ := crypto.GenerateKey()
	otherKey, _ := crypto.GenerateKey()
	attested := crypto.PubkeyToAddress(providerKey.PublicKey)
	content := []byte("response body")

	api := &fakeProviderAPI{
		report:    provider.AttestationReport{SigningAddress: attested.Hex(), IntelQuote: "q"},
		signature: signContent(t, otherKey, content),
	}
	v := newTestVerifier(t, true)

	ok, err := v.VerifyResponse(context.Background(), testProvider, verifiableService(), api, content, "chatcmpl-1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("signature from a different key accepted")
	}
}

func TestVerifyResponseNonVerifiableService(t *testing.T) {
	api := &fakeProviderAPI{}
	v := newTestVerifier(t, true)

	svc := verifiableService()
	svc.Verifiability = ""
	ok, err := v.VerifyResponse(context.Background(), testProvider, svc, api, []byte("x"), "chatcmpl-1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("non-verifiable service must never verify")
	}
	if api.sigCalls != 0 {
		t.Errorf("signature fetched %d times for a non-verifiable service, want 0", api.sigCalls)
	}
}

func TestGetSigningAddressCaches(t *testing.T) {
	api := &fakeProviderAPI{
		report: provider.AttestationReport{SigningAddress: "0xabc", IntelQuote: "q"},
	}
	v := newTestVerifier(t, true)
	ctx := context.Background()

	first, err := v.GetSigningAddress(ctx, testProvider, "m", api, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := v.GetSigningAddress(ctx, testProvider, "m", api, false)
	if err != nil {
		t.Fatal(err)
	}
	if api.reportCalls != 1 {
		t.Errorf("report fetched %d times, want 1 (second read from cache)", api.reportCalls)
	}
	if first.SigningAddress != second.SigningAddress {
		t.Errorf("cached address %q differs from fetched %q", second.SigningAddress, first.SigningAddress)
	}
	if first.Valid != ValidityUnknown || second.Valid != ValidityUnknown {
		t.Error("unverified reads must report validity unknown")
	}
}

func TestGetSigningAddressVerified(t *testing.T) {
	api := &fakeProviderAPI{
		report: provider.AttestationReport{SigningAddress: "0xabc", IntelQuote: "q"},
	}
	ctx := context.Background()

	v := newTestVerifier(t, true)
	res, err := v.GetSigningAddress(ctx, testProvider, "m", api, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Valid != ValidityValid {
		t.Errorf("validity = %s, want valid", res.Valid)
	}

	v = newTestVerifier(t, false)
	res, err = v.GetSigningAddress(ctx, testProvider, "m", api, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Valid != ValidityInvalid {
		t.Errorf("validity = %s, want invalid", res.Valid)
	}
}
