// Package settle builds the signed per-request settlement headers a provider
// needs to later settle accumulated fees on-chain.
package settle

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-serving-client/internal/cache"
	"github.com/0gfoundation/0g-serving-client/internal/chain"
	"github.com/0gfoundation/0g-serving-client/internal/codec"
	"github.com/0gfoundation/0g-serving-client/internal/fee"
	"github.com/0gfoundation/0g-serving-client/internal/settlesig"
)

// ErrProviderNotAcknowledged means the provider's attested signer has not
// been recorded on the sub-account yet; the caller must acknowledge first.
var ErrProviderNotAcknowledged = errors.New("provider signer not acknowledged")

// Request header names understood by provider brokers.
const (
	HeaderAddress       = "Address"
	HeaderFee           = "Fee"
	HeaderInputFee      = "Input-Fee"
	HeaderNonce         = "Nonce"
	HeaderRequestHash   = "Request-Hash"
	HeaderSignature     = "Signature"
	HeaderSignatureType = "X-Phala-Signature-Type"
	HeaderVLLMProxy     = "VLLM-Proxy"
)

const signatureTypeStandalone = "StandaloneApi"

const nonceTTL = time.Hour

// Contract is the slice of the chain client the builder reads from.
type Contract interface {
	GetAccount(ctx context.Context, user, provider common.Address) (chain.InferenceServingAccount, error)
	UserAddress() common.Address
}

// Funder keeps the sub-account funded and holds the settlement signing key.
// *ledger.Manager satisfies it.
type Funder interface {
	EnsureFunds(ctx context.Context, provider common.Address, svc chain.InferenceServingService) error
	EnsureSigningKey(ctx context.Context) (*settlesig.KeyPair, error)
}

// Builder produces single-use settlement headers. Each call allocates a fresh
// nonce and signature; callers must never reuse a header set across requests.
type Builder struct {
	contract  Contract
	funder    Funder
	spend     *fee.SpendTracker
	cache     *cache.Cache
	proxyMode bool
	log       *zap.Logger

	mu    sync.Mutex
	locks map[common.Address]*sync.Mutex
}

func NewBuilder(contract Contract, funder Funder, spend *fee.SpendTracker, c *cache.Cache, proxyMode bool, log *zap.Logger) *Builder {
	return &Builder{
		contract:  contract,
		funder:    funder,
		spend:     spend,
		cache:     c,
		proxyMode: proxyMode,
		log:       log,
		locks:     make(map[common.Address]*sync.Mutex),
	}
}

// providerLock serializes nonce and fee-counter updates per provider;
// unserialized concurrent requests could allocate duplicate nonces.
func (b *Builder) providerLock(provider common.Address) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.locks[provider]
	if !ok {
		l = &sync.Mutex{}
		b.locks[provider] = l
	}
	return l
}

func nonceKey(user, provider common.Address) string {
	return "nonce:" + strings.ToLower(user.Hex()) + ":" + strings.ToLower(provider.Hex())
}

func outputFeeKey(user, provider common.Address) string {
	return "outputfee:" + strings.ToLower(user.Hex()) + ":" + strings.ToLower(provider.Hex())
}

// GetRequestHeaders builds the signed header set for one outgoing request.
// The fee covers this request's input plus any output fee still pending from
// the previous response.
func (b *Builder) GetRequestHeaders(ctx context.Context, svc chain.InferenceServingService, content string) (map[string]string, error) {
	user := b.contract.UserAddress()
	providerAddr := svc.Provider

	lock := b.providerLock(providerAddr)
	lock.Lock()
	defer lock.Unlock()

	acc, err := b.contract.GetAccount(ctx, user, providerAddr)
	if err != nil {
		return nil, err
	}
	if acc.TeeSignerAddress == (common.Address{}) {
		return nil, fmt.Errorf("%w: provider %s", ErrProviderNotAcknowledged, providerAddr.Hex())
	}

	if err := b.funder.EnsureFunds(ctx, providerAddr, svc); err != nil {
		return nil, err
	}
	kp, err := b.funder.EnsureSigningKey(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := b.nextNonce(ctx, user, providerAddr, acc.Nonce)
	if err != nil {
		return nil, err
	}

	inputFee := fee.InputFee(int64(len(content)), svc.InputPrice)
	pendingOutput, err := b.cache.GetCounter(ctx, outputFeeKey(user, providerAddr))
	if err != nil {
		return nil, err
	}
	totalFee := new(big.Int).Add(inputFee, pendingOutput)

	rec := codec.SettlementRecord{
		Nonce:    nonce,
		Fee:      totalFee,
		User:     user,
		Provider: providerAddr,
	}
	// Serialization enforces the fixed-width bounds before anything is signed.
	if _, err := codec.Serialize(rec); err != nil {
		return nil, err
	}
	sigs, err := kp.Sign([]codec.SettlementRecord{rec})
	if err != nil {
		return nil, err
	}

	if _, err := b.spend.Add(ctx, user.Hex(), providerAddr.Hex(), totalFee); err != nil {
		return nil, err
	}
	if pendingOutput.Sign() > 0 {
		if err := b.cache.RemoveItem(ctx, outputFeeKey(user, providerAddr)); err != nil {
			return nil, err
		}
	}

	b.log.Debug("built settlement headers",
		zap.String("provider", providerAddr.Hex()),
		zap.Uint64("nonce", nonce),
		zap.String("fee", totalFee.String()),
	)

	return map[string]string{
		HeaderSignatureType: signatureTypeStandalone,
		HeaderAddress:       user.Hex(),
		HeaderFee:           totalFee.String(),
		HeaderInputFee:      inputFee.String(),
		HeaderNonce:         strconv.FormatUint(nonce, 10),
		HeaderRequestHash:   hexutil.Encode(settlesig.CommitmentHash(nonce, user, providerAddr)),
		HeaderSignature:     hexutil.Encode(sigs[0]),
		HeaderVLLMProxy:     strconv.FormatBool(b.proxyMode),
	}, nil
}

// nextNonce returns a nonce strictly above both the cached high-water mark
// and the last nonce the contract has settled. Must run under the provider
// lock.
func (b *Builder) nextNonce(ctx context.Context, user, provider common.Address, remote *big.Int) (uint64, error) {
	key := nonceKey(user, provider)
	cur, found, err := b.cache.GetBigInt(ctx, key)
	if err != nil {
		return 0, err
	}
	if !found || cur.Cmp(remote) < 0 {
		cur = new(big.Int).Set(remote)
	}
	next := new(big.Int).Add(cur, big.NewInt(1))
	if !next.IsUint64() {
		return 0, fmt.Errorf("nonce overflow for provider %s", provider.Hex())
	}
	if err := b.cache.SetBigInt(ctx, key, next, nonceTTL); err != nil {
		return 0, err
	}
	return next.Uint64(), nil
}

// ProcessResponse accrues the output fee for a delivered response; the next
// request's headers settle it.
func (b *Builder) ProcessResponse(ctx context.Context, svc chain.InferenceServingService, content string) (*big.Int, error) {
	user := b.contract.UserAddress()

	lock := b.providerLock(svc.Provider)
	lock.Lock()
	defer lock.Unlock()

	outputFee := fee.OutputFee(int64(len(content)), svc.OutputPrice)
	if outputFee.Sign() == 0 {
		return outputFee, nil
	}
	if _, err := b.cache.IncrBy(ctx, outputFeeKey(user, svc.Provider), outputFee, fee.DefaultSpendTTL); err != nil {
		return nil, err
	}
	return outputFee, nil
}
