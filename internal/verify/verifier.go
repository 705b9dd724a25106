// Package verify checks that inference responses were produced by the
// provider's attested signing key.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-serving-client/internal/attest"
	"github.com/0gfoundation/0g-serving-client/internal/cache"
	"github.com/0gfoundation/0g-serving-client/internal/chain"
	"github.com/0gfoundation/0g-serving-client/internal/provider"
)

// Validity is a three-valued attestation verdict. A cached address that was
// never re-attested reads as unknown, never as valid.
type Validity int

const (
	ValidityUnknown Validity = iota
	ValidityValid
	ValidityInvalid
)

func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "valid"
	case ValidityInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// AttestationResult pairs a provider's signing address with how much the
// caller may trust it.
type AttestationResult struct {
	SigningAddress string
	Valid          Validity
}

// ProviderAPI is the slice of the provider's HTTP surface used here.
type ProviderAPI interface {
	GetAttestationReport(ctx context.Context, model string) (provider.AttestationReport, error)
	GetSignature(ctx context.Context, responseID, model string) (provider.ResponseSignature, error)
}

const signerCacheTTL = 5 * time.Minute

// Verifier resolves attested signing addresses and checks response
// signatures against them.
type Verifier struct {
	attest *attest.Verifier
	cache  *cache.Cache
	log    *zap.Logger
}

func NewVerifier(a *attest.Verifier, c *cache.Cache, log *zap.Logger) *Verifier {
	return &Verifier{attest: a, cache: c, log: log}
}

func signerCacheKey(providerAddr common.Address, model string) string {
	return "signer:" + strings.ToLower(providerAddr.Hex()) + ":" + model
}

// GetSigningAddress returns the provider's signing address for a model. The
// cached address comes back with Valid unknown; pass verifyAttestation to
// fetch a fresh report, re-run the hardware attestation, and cache the
// address with a definite verdict.
func (v *Verifier) GetSigningAddress(ctx context.Context, providerAddr common.Address, model string, api ProviderAPI, verifyAttestation bool) (AttestationResult, error) {
	key := signerCacheKey(providerAddr, model)

	if !verifyAttestation {
		var cached AttestationResult
		found, err := v.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			return AttestationResult{}, err
		}
		if found {
			return AttestationResult{SigningAddress: cached.SigningAddress, Valid: ValidityUnknown}, nil
		}
	}

	report, err := api.GetAttestationReport(ctx, model)
	if err != nil {
		return AttestationResult{}, fmt.Errorf("fetch attestation report: %w", err)
	}

	result := AttestationResult{SigningAddress: report.SigningAddress, Valid: ValidityUnknown}
	if verifyAttestation {
		ok, err := v.attest.VerifyQuote(ctx, []byte(report.IntelQuote))
		if err != nil {
			return AttestationResult{}, fmt.Errorf("verify quote: %w", err)
		}
		if ok && len(report.NvidiaPayload) > 0 {
			ok, err = v.attest.VerifySecondaryAttestation(ctx, report.NvidiaPayload)
			if err != nil && !errors.Is(err, attest.ErrAttestationUnavailable) {
				return AttestationResult{}, err
			}
			if errors.Is(err, attest.ErrAttestationUnavailable) {
				ok = false
			}
		}
		if ok {
			result.Valid = ValidityValid
		} else {
			result.Valid = ValidityInvalid
		}
	}

	if err := v.cache.SetJSON(ctx, key, result, signerCacheTTL); err != nil {
		return AttestationResult{}, err
	}
	return result, nil
}

// VerifyResponse checks the provider's signature over content. Non-verifiable
// services return false without touching the provider: no verification claim
// is possible for them. A signer mismatch is a false verdict, not an error.
func (v *Verifier) VerifyResponse(ctx context.Context, providerAddr common.Address, svc chain.InferenceServingService, api ProviderAPI, content []byte, responseID string) (bool, error) {
	if svc.Verifiability == "" {
		return false, nil
	}

	attested, err := v.GetSigningAddress(ctx, providerAddr, svc.Model, api, false)
	if err != nil {
		return false, err
	}

	sig, err := api.GetSignature(ctx, responseID, svc.Model)
	if err != nil {
		return false, fmt.Errorf("fetch response signature: %w", err)
	}
	raw, err := hexutil.Decode(sig.Signature)
	if err != nil {
		return false, fmt.Errorf("decode response signature: %w", err)
	}

	recovered, err := recoverSigner(content, raw)
	if err != nil {
		v.log.Debug("signature recovery failed",
			zap.String("provider", providerAddr.Hex()), zap.Error(err))
		return false, nil
	}
	return strings.EqualFold(recovered.Hex(), attested.SigningAddress), nil
}

// hashMessage builds the EIP-191 prefixed hash:
// keccak256("\x19Ethereum Signed Message:\n" + len(msg) + msg)
func hashMessage(msg []byte) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(msg))
	return crypto.Keccak256([]byte(prefix), msg)
}

// recoverSigner extracts the signer address from a 65-byte R || S || V
// signature over msg, accepting V in {0,1} or {27,28}.
func recoverSigner(msg, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, errors.New("invalid signature length")
	}
	normalized := make([]byte, 65)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pub, err := crypto.SigToPub(hashMessage(msg), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("ecrecover: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
