// Package attest establishes that a provider's ephemeral signing key is
// backed by genuine confidential-computing hardware before the client trusts
// its responses.
package attest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-serving-client/internal/cache"
	"github.com/0gfoundation/0g-serving-client/internal/chain"
	"github.com/0gfoundation/0g-serving-client/internal/provider"
)

var (
	// ErrAttestationFailed is a definite negative verification result.
	ErrAttestationFailed = errors.New("attestation failed")
	// ErrAttestationUnavailable means the attestation service rejected the
	// payload outright (protocol error), as opposed to judging it invalid.
	ErrAttestationUnavailable = errors.New("attestation service unavailable")
	// ErrAcknowledgeInFlight means another caller holds the acknowledgement
	// lock for this provider. The outcome of that attempt is unknown, so the
	// caller must retry rather than assume the signer is recorded.
	ErrAcknowledgeInFlight = errors.New("acknowledgement already in flight")
)

// localChainIDs are dev networks without a quote-verifier contract.
var localChainIDs = map[int64]bool{31337: true, 1337: true}

// ackLockTTL bounds how long a crashed acknowledger can block others.
const ackLockTTL = 30 * time.Second

// ChainVerifier is the slice of the chain client the verifier needs.
type ChainVerifier interface {
	VerifyQuote(ctx context.Context, rawQuote []byte) (bool, error)
	GetAccount(ctx context.Context, user, provider common.Address) (chain.InferenceServingAccount, error)
	TransferFund(ctx context.Context, provider common.Address, amount *big.Int) error
	AcknowledgeProviderSigner(ctx context.Context, provider, signer common.Address) error
	UserAddress() common.Address
}

// QuoteSource yields a provider's current quote and claimed signer.
type QuoteSource interface {
	GetQuote(ctx context.Context) (provider.Quote, error)
}

// Verifier checks hardware quotes and records acknowledged provider signers.
type Verifier struct {
	chain        ChainVerifier
	cache        *cache.Cache
	secondaryURL string
	http         *http.Client
	chainID      int64
	log          *zap.Logger
}

func NewVerifier(ch ChainVerifier, c *cache.Cache, secondaryURL string, chainID int64, log *zap.Logger) *Verifier {
	return &Verifier{
		chain:        ch,
		cache:        c,
		secondaryURL: secondaryURL,
		http:         &http.Client{Timeout: 30 * time.Second},
		chainID:      chainID,
		log:          log,
	}
}

// VerifyQuote submits the raw hardware quote to the on-chain verifier. A
// negative verdict comes back as false, not an error. On local dev chains the
// check is bypassed; this must never be silent.
func (v *Verifier) VerifyQuote(ctx context.Context, rawQuote []byte) (bool, error) {
	if localChainIDs[v.chainID] {
		v.log.Warn("SECURITY: quote verification bypassed on local chain",
			zap.Int64("chainID", v.chainID))
		return true, nil
	}
	return v.chain.VerifyQuote(ctx, rawQuote)
}

// VerifySecondaryAttestation POSTs a GPU attestation payload to the external
// attestation service. 200 means valid; any other non-2xx or a network
// failure means invalid, except 404 which indicates a malformed payload and
// surfaces as ErrAttestationUnavailable.
func (v *Verifier) VerifySecondaryAttestation(ctx context.Context, payload json.RawMessage) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.secondaryURL, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.http.Do(req)
	if err != nil {
		v.log.Warn("secondary attestation request failed", zap.Error(err))
		return false, nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("%w: service rejected payload with 404", ErrAttestationUnavailable)
	default:
		v.log.Warn("secondary attestation rejected",
			zap.Int("status", resp.StatusCode))
		return false, nil
	}
}

func ackLockKey(user, provider common.Address) string {
	return "ack:" + strings.ToLower(user.Hex()) + ":" + strings.ToLower(provider.Hex())
}

// AcknowledgeProvider fetches the provider's quote, verifies it, and records
// the claimed signer on the sub-account. Re-acknowledging an identical signer
// is a no-op. A short advisory lock keeps concurrent callers from submitting
// redundant transactions; a contended call fails with ErrAcknowledgeInFlight
// so the caller retries instead of treating the provider as acknowledged.
func (v *Verifier) AcknowledgeProvider(ctx context.Context, providerAddr common.Address, src QuoteSource) error {
	user := v.chain.UserAddress()
	won, err := v.cache.SetLock(ctx, ackLockKey(user, providerAddr), ackLockTTL)
	if err != nil {
		return err
	}
	if !won {
		return fmt.Errorf("%w: provider %s", ErrAcknowledgeInFlight, providerAddr.Hex())
	}
	defer func() {
		if err := v.cache.RemoveLock(ctx, ackLockKey(user, providerAddr)); err != nil {
			v.log.Warn("release acknowledge lock", zap.Error(err))
		}
	}()

	quote, err := src.GetQuote(ctx)
	if err != nil {
		return fmt.Errorf("fetch provider quote: %w", err)
	}
	signer := common.HexToAddress(quote.ProviderSigner)

	ok, err := v.VerifyQuote(ctx, []byte(quote.Quote))
	if err != nil {
		return fmt.Errorf("verify quote: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: quote rejected for provider %s", ErrAttestationFailed, providerAddr.Hex())
	}

	if len(quote.NvidiaPayload) > 0 && v.secondaryURL != "" {
		ok, err := v.VerifySecondaryAttestation(ctx, quote.NvidiaPayload)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: secondary attestation rejected for provider %s", ErrAttestationFailed, providerAddr.Hex())
		}
	}

	acc, err := v.chain.GetAccount(ctx, user, providerAddr)
	switch {
	case errors.Is(err, chain.ErrAccountNotFound):
		v.log.Info("creating sub-account before acknowledgement",
			zap.String("provider", providerAddr.Hex()))
		if err := v.chain.TransferFund(ctx, providerAddr, big.NewInt(0)); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if acc.TeeSignerAddress == signer {
			v.log.Debug("provider signer already acknowledged",
				zap.String("provider", providerAddr.Hex()),
				zap.String("signer", signer.Hex()))
			return nil
		}
	}

	v.log.Info("acknowledging provider signer",
		zap.String("provider", providerAddr.Hex()),
		zap.String("signer", signer.Hex()))
	return v.chain.AcknowledgeProviderSigner(ctx, providerAddr, signer)
}
