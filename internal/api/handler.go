// Package api exposes the broker over HTTP for sidecar deployments where the
// application speaks to a local process instead of linking the client.
package api

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-serving-client/internal/attest"
	"github.com/0gfoundation/0g-serving-client/internal/chain"
	"github.com/0gfoundation/0g-serving-client/internal/fee"
	"github.com/0gfoundation/0g-serving-client/internal/ledger"
	"github.com/0gfoundation/0g-serving-client/internal/settle"
	"github.com/0gfoundation/0g-serving-client/internal/verify"
)

// Broker is satisfied by broker.Broker. Decoupled here so handler tests can
// use a mock.
type Broker interface {
	AcknowledgeProvider(ctx context.Context, provider common.Address) error
	GetRequestHeaders(ctx context.Context, provider common.Address, content string) (map[string]string, error)
	ProcessResponse(ctx context.Context, provider common.Address, content string) (*big.Int, error)
	VerifyResponse(ctx context.Context, provider common.Address, content []byte, responseID string) (bool, error)
	GetSigningAddress(ctx context.Context, provider common.Address, verifyAttestation bool) (verify.AttestationResult, error)
	Account(ctx context.Context, provider common.Address) (chain.InferenceServingAccount, error)
	Ledger(ctx context.Context) (chain.InferenceServingLedger, error)
	ListRefunds(ctx context.Context, provider common.Address) ([]ledger.Refund, error)
	RequestRefund(ctx context.Context, provider common.Address, amount *big.Int) error
	RetrieveAllFunds(ctx context.Context) error
	DeleteAccount(ctx context.Context, provider common.Address) error
}

// Handler wires the broker routes onto a Gin engine.
type Handler struct {
	broker Broker
	log    *zap.Logger
}

func NewHandler(b Broker, log *zap.Logger) *Handler {
	return &Handler{broker: b, log: log}
}

// Register mounts all routes on the group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/ledger", h.handleLedger)
	rg.POST("/ledger/retrieve", h.handleRetrieve)

	p := rg.Group("/providers/:address", h.withProvider)
	p.POST("/acknowledge", h.handleAcknowledge)
	p.POST("/headers", h.handleHeaders)
	p.POST("/response", h.handleResponse)
	p.POST("/verify", h.handleVerify)
	p.GET("/signer", h.handleSigner)
	p.GET("/account", h.handleAccount)
	p.GET("/refunds", h.handleListRefunds)
	p.POST("/refunds", h.handleRequestRefund)
	p.DELETE("", h.handleDeleteAccount)
}

// withProvider validates and stashes the :address parameter.
func (h *Handler) withProvider(c *gin.Context) {
	raw := c.Param("address")
	if !common.IsHexAddress(raw) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid provider address"})
		return
	}
	c.Set("provider", common.HexToAddress(raw))
	c.Next()
}

func providerAddr(c *gin.Context) common.Address {
	return c.MustGet("provider").(common.Address)
}

// statusFor maps the error taxonomy onto HTTP statuses so callers can act on
// each kind.
func statusFor(err error) int {
	switch {
	case errors.Is(err, chain.ErrAccountNotFound),
		errors.Is(err, chain.ErrLedgerNotFound),
		errors.Is(err, chain.ErrServiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, chain.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, chain.ErrTransactionTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, settle.ErrProviderNotAcknowledged):
		return http.StatusPreconditionFailed
	case errors.Is(err, attest.ErrAcknowledgeInFlight):
		return http.StatusConflict
	case errors.Is(err, attest.ErrAttestationFailed):
		return http.StatusForbidden
	case errors.Is(err, attest.ErrAttestationUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) handleAcknowledge(c *gin.Context) {
	if err := h.broker.AcknowledgeProvider(c.Request.Context(), providerAddr(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true})
}

type contentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) handleHeaders(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content required"})
		return
	}
	headers, err := h.broker.GetRequestHeaders(c.Request.Context(), providerAddr(c), req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"headers": headers})
}

func (h *Handler) handleResponse(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content required"})
		return
	}
	outputFee, err := h.broker.ProcessResponse(c.Request.Context(), providerAddr(c), req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"output_fee": outputFee.String()})
}

func (h *Handler) handleVerify(c *gin.Context) {
	var req struct {
		Content    string `json:"content" binding:"required"`
		ResponseID string `json:"response_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content and response_id required"})
		return
	}
	valid, err := h.broker.VerifyResponse(c.Request.Context(), providerAddr(c), []byte(req.Content), req.ResponseID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

func (h *Handler) handleSigner(c *gin.Context) {
	verifyAttestation := c.Query("verify") == "true"
	res, err := h.broker.GetSigningAddress(c.Request.Context(), providerAddr(c), verifyAttestation)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"signing_address": res.SigningAddress,
		"valid":           res.Valid.String(),
	})
}

func (h *Handler) handleAccount(c *gin.Context) {
	acc, err := h.broker.Account(c.Request.Context(), providerAddr(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":        acc.Balance.String(),
		"pending_refund": acc.PendingRefund.String(),
		"available":      ledger.Available(acc).String(),
		"balance_a0gi":   fee.FromSmallestUnit(acc.Balance),
		"nonce":          acc.Nonce.String(),
		"tee_signer":     acc.TeeSignerAddress.Hex(),
	})
}

func (h *Handler) handleLedger(c *gin.Context) {
	led, err := h.broker.Ledger(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	providers := make([]string, 0, len(led.InferenceProviders))
	for _, p := range led.InferenceProviders {
		providers = append(providers, p.Hex())
	}
	c.JSON(http.StatusOK, gin.H{
		"available_balance": led.AvailableBalance.String(),
		"total_balance":     led.TotalBalance.String(),
		"available_a0gi":    fee.FromSmallestUnit(led.AvailableBalance),
		"providers":         providers,
	})
}

func (h *Handler) handleListRefunds(c *gin.Context) {
	refunds, err := h.broker.ListRefunds(c.Request.Context(), providerAddr(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(refunds))
	for _, r := range refunds {
		out = append(out, gin.H{
			"amount":          r.Amount.String(),
			"created_at":      r.CreatedAt.Format(time.RFC3339),
			"processed":       r.Processed,
			"remain_time_sec": int64(r.RemainTime.Seconds()),
			"eligible":        r.Eligible,
		})
	}
	c.JSON(http.StatusOK, gin.H{"refunds": out})
}

func (h *Handler) handleRequestRefund(c *gin.Context) {
	var req struct {
		Amount string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount required"})
		return
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive decimal integer"})
		return
	}
	if err := h.broker.RequestRefund(c.Request.Context(), providerAddr(c), amount); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requested": true})
}

func (h *Handler) handleRetrieve(c *gin.Context) {
	if err := h.broker.RetrieveAllFunds(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"retrieved": true})
}

func (h *Handler) handleDeleteAccount(c *gin.Context) {
	if err := h.broker.DeleteAccount(c.Request.Context(), providerAddr(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
