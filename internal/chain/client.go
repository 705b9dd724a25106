// Package chain is the client's only gateway to the on-chain serving
// contract. All remote-call errors are classified here; all transaction
// submission, gas escalation, and nonce bookkeeping lives here.
package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// ServiceTypeInference tags sub-account transfers for metered inference.
const ServiceTypeInference = "inference"

// GasPolicy bounds transaction resubmission. When MaxGasPrice is nil a wait
// timeout is fatal; otherwise each retry multiplies the gas price by
// StepRatio/10, clamped to MaxGasPrice.
type GasPolicy struct {
	MaxGasPrice *big.Int
	StepRatio   int64
	TxTimeout   time.Duration
	// NonceGap is the largest tolerated divergence between the local pending
	// nonce and the remotely observed one before resynchronizing.
	NonceGap uint64
}

// DefaultGasPolicy matches the contract's expected settlement cadence.
var DefaultGasPolicy = GasPolicy{
	StepRatio: 11,
	TxTimeout: 30 * time.Second,
	NonceGap:  5,
}

// backend is the subset of ethclient the Client needs; narrowed for tests.
type backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// Client wraps the generated InferenceServing binding with retries,
// classification, and escalating resubmission.
type Client struct {
	eth          backend
	contract     *InferenceServing
	contractAddr common.Address
	chainID      *big.Int
	key          *ecdsa.PrivateKey
	userAddr     common.Address
	gas          GasPolicy
	log          *zap.Logger

	// mu serializes submission so two transactions never race for the same
	// account nonce.
	mu           sync.Mutex
	pendingNonce uint64
	nonceKnown   bool
}

func NewClient(rpcURL string, contractAddr common.Address, privKeyHex string, chainID int64, gas GasPolicy, log *zap.Logger) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	key, err := crypto.HexToECDSA(privKeyHex)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	contract, err := NewInferenceServing(contractAddr, eth)
	if err != nil {
		return nil, fmt.Errorf("bind contract: %w", err)
	}
	return &Client{
		eth:          eth,
		contract:     contract,
		contractAddr: contractAddr,
		chainID:      big.NewInt(chainID),
		key:          key,
		userAddr:     crypto.PubkeyToAddress(key.PublicKey),
		gas:          gas,
		log:          log,
	}, nil
}

// UserAddress returns the address derived from the configured private key.
func (c *Client) UserAddress() common.Address { return c.userAddr }

// ChainID returns the configured chain ID.
func (c *Client) ChainID() *big.Int { return c.chainID }

// PrivateKey returns the account key (used to derive the metadata
// encryption key).
func (c *Client) PrivateKey() *ecdsa.PrivateKey { return c.key }

// withRetry runs a view call with bounded exponential backoff. Definite
// contract outcomes (not-found, insufficient balance) are final; transport
// errors are retried.
func (c *Client) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil || isFinal(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}

// GetAccount reads the (user, provider) sub-account.
func (c *Client) GetAccount(ctx context.Context, user, provider common.Address) (InferenceServingAccount, error) {
	var acc InferenceServingAccount
	err := c.withRetry(ctx, func(ctx context.Context) error {
		a, err := c.contract.GetAccount(&bind.CallOpts{Context: ctx}, user, provider)
		if err != nil {
			return classify("getAccount", err)
		}
		acc = a
		return nil
	})
	return acc, err
}

// GetService reads a provider's registered service record.
func (c *Client) GetService(ctx context.Context, provider common.Address) (InferenceServingService, error) {
	var svc InferenceServingService
	err := c.withRetry(ctx, func(ctx context.Context) error {
		s, err := c.contract.GetService(&bind.CallOpts{Context: ctx}, provider)
		if err != nil {
			return classify("getService", err)
		}
		svc = s
		return nil
	})
	return svc, err
}

// GetLedger reads the user's top-level ledger.
func (c *Client) GetLedger(ctx context.Context, user common.Address) (InferenceServingLedger, error) {
	var led InferenceServingLedger
	err := c.withRetry(ctx, func(ctx context.Context) error {
		l, err := c.contract.GetLedger(&bind.CallOpts{Context: ctx}, user)
		if err != nil {
			return classify("getLedger", err)
		}
		led = l
		return nil
	})
	return led, err
}

// LockTime reads the refund lock window in seconds.
func (c *Client) LockTime(ctx context.Context) (*big.Int, error) {
	var lt *big.Int
	err := c.withRetry(ctx, func(ctx context.Context) error {
		v, err := c.contract.LockTime(&bind.CallOpts{Context: ctx})
		if err != nil {
			return classify("lockTime", err)
		}
		lt = v
		return nil
	})
	return lt, err
}

// VerifyQuote submits a raw TDX quote to the on-chain verifier. A negative
// verification result is the boolean false, not an error.
func (c *Client) VerifyQuote(ctx context.Context, rawQuote []byte) (bool, error) {
	var ok bool
	err := c.withRetry(ctx, func(ctx context.Context) error {
		v, err := c.contract.VerifyQuote(&bind.CallOpts{Context: ctx}, rawQuote)
		if err != nil {
			return classify("verifyQuote", err)
		}
		ok = v
		return nil
	})
	return ok, err
}

// AddLedger creates the user's ledger carrying the packed settlement signer
// and the encrypted key material.
func (c *Client) AddLedger(ctx context.Context, signer [2]*big.Int, additionalInfo string, value *big.Int) error {
	return c.submit(ctx, "addLedger", value, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.AddLedger(opts, signer, additionalInfo)
	})
}

// TransferFund moves amount from the ledger into the provider's sub-account.
// A zero amount provisions the account without funding it.
func (c *Client) TransferFund(ctx context.Context, provider common.Address, amount *big.Int) error {
	return c.submit(ctx, "transferFund", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.TransferFund(opts, provider, ServiceTypeInference, amount)
	})
}

// AcknowledgeProviderSigner records the provider's attested signing address.
func (c *Client) AcknowledgeProviderSigner(ctx context.Context, provider, signer common.Address) error {
	return c.submit(ctx, "acknowledgeProviderSigner", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.AcknowledgeProviderSigner(opts, provider, signer)
	})
}

// RequestRefund starts the lock-time countdown on amount in the provider's
// sub-account.
func (c *Client) RequestRefund(ctx context.Context, provider common.Address, amount *big.Int) error {
	return c.submit(ctx, "requestRefund", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.RequestRefund(opts, provider, amount)
	})
}

// RetrieveFund requests refunds of every unlocked sub-account balance back to
// the ledger.
func (c *Client) RetrieveFund(ctx context.Context, providers []common.Address) error {
	return c.submit(ctx, "retrieveFund", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.RetrieveFund(opts, providers, ServiceTypeInference)
	})
}

// DeleteAccount removes the (user, provider) sub-account on-chain.
func (c *Client) DeleteAccount(ctx context.Context, provider common.Address) error {
	return c.submit(ctx, "deleteAccount", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.DeleteAccount(opts, provider)
	})
}

// submit sends a transaction and waits for its receipt. On a wait timeout the
// transaction is resubmitted with an escalated gas price per the policy; the
// request is never silently dropped.
func (c *Client) submit(ctx context.Context, label string, value *big.Int, fn func(*bind.TransactOpts) (*types.Transaction, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.syncNonce(ctx); err != nil {
		return fmt.Errorf("%s: sync nonce: %w", label, err)
	}

	var gasPrice *big.Int
	for {
		opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
		if err != nil {
			return fmt.Errorf("%s: build tx opts: %w", label, err)
		}
		opts.Context = ctx
		opts.Nonce = new(big.Int).SetUint64(c.pendingNonce)
		opts.GasPrice = gasPrice
		opts.Value = value

		tx, err := fn(opts)
		if err != nil {
			return classify(label, err)
		}
		if gasPrice == nil {
			gasPrice = tx.GasPrice()
		}

		receipt, err := c.waitMined(ctx, tx)
		if err == nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return fmt.Errorf("%s: tx %s reverted", label, tx.Hash().Hex())
			}
			c.pendingNonce++
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", label, ctx.Err())
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: wait mined: %w", label, err)
		}

		// Stuck transaction. Without a gas ceiling there is no safe
		// escalation policy, so the timeout is fatal.
		if c.gas.MaxGasPrice == nil {
			return fmt.Errorf("%s: tx %s: %w", label, tx.Hash().Hex(), ErrTransactionTimeout)
		}
		if gasPrice.Cmp(c.gas.MaxGasPrice) >= 0 {
			return fmt.Errorf("%s: tx %s stuck at max gas price %s: %w",
				label, tx.Hash().Hex(), c.gas.MaxGasPrice, ErrTransactionTimeout)
		}
		gasPrice = NextGasPrice(gasPrice, c.gas.StepRatio, c.gas.MaxGasPrice)
		c.log.Warn("transaction stuck, resubmitting with escalated gas price",
			zap.String("op", label),
			zap.String("tx", tx.Hash().Hex()),
			zap.String("gasPrice", gasPrice.String()),
		)
		if err := c.resyncStaleNonce(ctx); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
	}
}

// waitMined polls for the receipt under the policy's per-attempt timeout.
func (c *Client) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, c.gas.TxTimeout)
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		receipt, err := c.eth.TransactionReceipt(waitCtx, tx.Hash())
		if err == nil {
			return receipt, nil
		}
		select {
		case <-waitCtx.Done():
			return nil, waitCtx.Err()
		case <-ticker.C:
		}
	}
}

// syncNonce initializes the local pending nonce from the node on first use.
func (c *Client) syncNonce(ctx context.Context) error {
	if c.nonceKnown {
		return nil
	}
	n, err := c.eth.PendingNonceAt(ctx, c.userAddr)
	if err != nil {
		return err
	}
	c.pendingNonce = n
	c.nonceKnown = true
	return nil
}

// resyncStaleNonce re-reads the remote pending nonce and adopts it when the
// local counter has drifted past the configured gap (stale-nonce recovery
// after dropped or externally replaced transactions).
func (c *Client) resyncStaleNonce(ctx context.Context) error {
	remote, err := c.eth.PendingNonceAt(ctx, c.userAddr)
	if err != nil {
		return fmt.Errorf("read pending nonce: %w", err)
	}
	var gap uint64
	if remote > c.pendingNonce {
		gap = remote - c.pendingNonce
	} else {
		gap = c.pendingNonce - remote
	}
	if gap > c.gas.NonceGap {
		c.log.Warn("pending nonce drifted, resynchronizing",
			zap.Uint64("local", c.pendingNonce),
			zap.Uint64("remote", remote),
		)
		c.pendingNonce = remote
	}
	return nil
}

// NextGasPrice returns current * step/10 clamped to max. With step 11 each
// retry raises the price by 10%.
func NextGasPrice(current *big.Int, step int64, max *big.Int) *big.Int {
	next := new(big.Int).Mul(current, big.NewInt(step))
	next.Div(next, big.NewInt(10))
	if max != nil && next.Cmp(max) > 0 {
		next.Set(max)
	}
	return next
}
