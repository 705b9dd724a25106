// Package broker is the top-level client facade: it wires the chain client,
// cache, funding policy, attestation, settlement, and response verification
// into the surface applications call.
package broker

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-serving-client/internal/attest"
	"github.com/0gfoundation/0g-serving-client/internal/cache"
	"github.com/0gfoundation/0g-serving-client/internal/chain"
	"github.com/0gfoundation/0g-serving-client/internal/config"
	"github.com/0gfoundation/0g-serving-client/internal/fee"
	"github.com/0gfoundation/0g-serving-client/internal/ledger"
	"github.com/0gfoundation/0g-serving-client/internal/provider"
	"github.com/0gfoundation/0g-serving-client/internal/settle"
	"github.com/0gfoundation/0g-serving-client/internal/verify"
)

// serviceTTL bounds how long provider metadata (prices, URL, model) is
// served from cache; a provider price change takes effect within this window.
const serviceTTL = time.Minute

// Broker is one user's client session against the serving contract.
type Broker struct {
	chain  *chain.Client
	cache  *cache.Cache
	spend  *fee.SpendTracker
	ledger *ledger.Manager
	attest *attest.Verifier
	verify *verify.Verifier
	settle *settle.Builder
	log    *zap.Logger

	mu        sync.Mutex
	providers map[string]*provider.Client
}

// New builds a fully wired broker from configuration.
func New(cfg *config.Config, log *zap.Logger) (*Broker, error) {
	gas := chain.DefaultGasPolicy
	gas.StepRatio = cfg.Chain.GasStepRatio
	gas.TxTimeout = time.Duration(cfg.Chain.TxTimeoutSec) * time.Second
	if cfg.Chain.MaxGasPrice != "" {
		max, ok := new(big.Int).SetString(cfg.Chain.MaxGasPrice, 10)
		if !ok {
			return nil, fmt.Errorf("parse max gas price %q", cfg.Chain.MaxGasPrice)
		}
		gas.MaxGasPrice = max
	}

	chainClient, err := chain.NewClient(
		cfg.Chain.RPCURL,
		common.HexToAddress(cfg.Chain.ContractAddress),
		cfg.Chain.PrivateKey,
		cfg.Chain.ChainID,
		gas,
		log.Named("chain"),
	)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	c := cache.New(rdb, "serving:"+strings.ToLower(chainClient.UserAddress().Hex())+":")
	spend := fee.NewSpendTracker(c, cfg.Billing.SpendTTL())

	thresholds := ledger.Thresholds{
		Check:   cfg.Billing.CheckMult,
		Trigger: cfg.Billing.TriggerMult,
		Target:  cfg.Billing.TargetMult,
	}
	ledgerMgr := ledger.NewManager(chainClient, chainClient.PrivateKey(), c, spend, thresholds, log.Named("ledger"))
	attestVerifier := attest.NewVerifier(chainClient, c, cfg.Attestation.SecondaryURL, cfg.Chain.ChainID, log.Named("attest"))
	respVerifier := verify.NewVerifier(attestVerifier, c, log.Named("verify"))
	builder := settle.NewBuilder(chainClient, ledgerMgr, spend, c, cfg.Billing.VLLMProxy, log.Named("settle"))

	return &Broker{
		chain:     chainClient,
		cache:     c,
		spend:     spend,
		ledger:    ledgerMgr,
		attest:    attestVerifier,
		verify:    respVerifier,
		settle:    builder,
		log:       log,
		providers: make(map[string]*provider.Client),
	}, nil
}

// UserAddress is the account all sub-accounts hang off.
func (b *Broker) UserAddress() common.Address { return b.chain.UserAddress() }

func serviceKey(providerAddr common.Address) string {
	return "service:" + strings.ToLower(providerAddr.Hex())
}

// Service returns the provider's service record, cached briefly.
func (b *Broker) Service(ctx context.Context, providerAddr common.Address) (chain.InferenceServingService, error) {
	var svc chain.InferenceServingService
	found, err := b.cache.GetJSON(ctx, serviceKey(providerAddr), &svc)
	if err != nil {
		return chain.InferenceServingService{}, err
	}
	if found {
		return svc, nil
	}
	svc, err = b.chain.GetService(ctx, providerAddr)
	if err != nil {
		return chain.InferenceServingService{}, err
	}
	if err := b.cache.SetJSON(ctx, serviceKey(providerAddr), svc, serviceTTL); err != nil {
		return chain.InferenceServingService{}, err
	}
	return svc, nil
}

func (b *Broker) providerClient(baseURL string) *provider.Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	pc, ok := b.providers[baseURL]
	if !ok {
		pc = provider.NewClient(baseURL)
		b.providers[baseURL] = pc
	}
	return pc
}

// AcknowledgeProvider verifies the provider's hardware quote and records its
// signer on the sub-account. Must succeed once before GetRequestHeaders.
func (b *Broker) AcknowledgeProvider(ctx context.Context, providerAddr common.Address) error {
	svc, err := b.Service(ctx, providerAddr)
	if err != nil {
		return err
	}
	return b.attest.AcknowledgeProvider(ctx, providerAddr, b.providerClient(svc.Url))
}

// GetRequestHeaders returns the single-use settlement headers for one
// request carrying content.
func (b *Broker) GetRequestHeaders(ctx context.Context, providerAddr common.Address, content string) (map[string]string, error) {
	svc, err := b.Service(ctx, providerAddr)
	if err != nil {
		return nil, err
	}
	return b.settle.GetRequestHeaders(ctx, svc, content)
}

// ProcessResponse accrues the output fee for a delivered response and
// returns it.
func (b *Broker) ProcessResponse(ctx context.Context, providerAddr common.Address, content string) (*big.Int, error) {
	svc, err := b.Service(ctx, providerAddr)
	if err != nil {
		return nil, err
	}
	return b.settle.ProcessResponse(ctx, svc, content)
}

// VerifyResponse checks the provider's signature over content keyed by the
// response ID. False means the response must not be trusted.
func (b *Broker) VerifyResponse(ctx context.Context, providerAddr common.Address, content []byte, responseID string) (bool, error) {
	svc, err := b.Service(ctx, providerAddr)
	if err != nil {
		return false, err
	}
	return b.verify.VerifyResponse(ctx, providerAddr, svc, b.providerClient(svc.Url), content, responseID)
}

// GetSigningAddress resolves the provider's signing address, optionally
// re-running the hardware attestation for a definite verdict.
func (b *Broker) GetSigningAddress(ctx context.Context, providerAddr common.Address, verifyAttestation bool) (verify.AttestationResult, error) {
	svc, err := b.Service(ctx, providerAddr)
	if err != nil {
		return verify.AttestationResult{}, err
	}
	return b.verify.GetSigningAddress(ctx, providerAddr, svc.Model, b.providerClient(svc.Url), verifyAttestation)
}

// Account returns the raw sub-account record for a provider.
func (b *Broker) Account(ctx context.Context, providerAddr common.Address) (chain.InferenceServingAccount, error) {
	return b.chain.GetAccount(ctx, b.chain.UserAddress(), providerAddr)
}

// Ledger returns the user's top-level ledger record.
func (b *Broker) Ledger(ctx context.Context) (chain.InferenceServingLedger, error) {
	return b.chain.GetLedger(ctx, b.chain.UserAddress())
}

// ListRefunds lists pending refunds for a provider sub-account with their
// remaining lock time.
func (b *Broker) ListRefunds(ctx context.Context, providerAddr common.Address) ([]ledger.Refund, error) {
	return b.ledger.ListRefunds(ctx, providerAddr)
}

// RequestRefund starts the refund lock countdown on amount.
func (b *Broker) RequestRefund(ctx context.Context, providerAddr common.Address, amount *big.Int) error {
	return b.ledger.RequestRefund(ctx, providerAddr, amount)
}

// RetrieveAllFunds pulls eligible refunds back from every provider
// sub-account.
func (b *Broker) RetrieveAllFunds(ctx context.Context) error {
	return b.ledger.RetrieveAllFunds(ctx)
}

// DeleteAccount removes a provider sub-account and its local state.
func (b *Broker) DeleteAccount(ctx context.Context, providerAddr common.Address) error {
	return b.ledger.DeleteAccount(ctx, providerAddr)
}
