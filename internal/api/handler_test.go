package api

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-serving-client/internal/attest"
	"github.com/0gfoundation/0g-serving-client/internal/chain"
	"github.com/0gfoundation/0g-serving-client/internal/ledger"
	"github.com/0gfoundation/0g-serving-client/internal/settle"
	"github.com/0gfoundation/0g-serving-client/internal/verify"
)

type mockBroker struct {
	headers    map[string]string
	headersErr error
	acked      []common.Address
	refunds    []*big.Int
	valid      bool
}

func (m *mockBroker) AcknowledgeProvider(ctx context.Context, provider common.Address) error {
	m.acked = append(m.acked, provider)
	return nil
}

func (m *mockBroker) GetRequestHeaders(ctx context.Context, provider common.Address, content string) (map[string]string, error) {
	if m.headersErr != nil {
		return nil, m.headersErr
	}
	return m.headers, nil
}

func (m *mockBroker) ProcessResponse(ctx context.Context, provider common.Address, content string) (*big.Int, error) {
	return big.NewInt(int64(len(content)) * 200), nil
}

func (m *mockBroker) VerifyResponse(ctx context.Context, provider common.Address, content []byte, responseID string) (bool, error) {
	return m.valid, nil
}

func (m *mockBroker) GetSigningAddress(ctx context.Context, provider common.Address, verifyAttestation bool) (verify.AttestationResult, error) {
	v := verify.ValidityUnknown
	if verifyAttestation {
		v = verify.ValidityValid
	}
	return verify.AttestationResult{SigningAddress: "0xabc", Valid: v}, nil
}

func (m *mockBroker) Account(ctx context.Context, provider common.Address) (chain.InferenceServingAccount, error) {
	return chain.InferenceServingAccount{
		Balance:       big.NewInt(1000),
		PendingRefund: big.NewInt(100),
		Nonce:         big.NewInt(7),
	}, nil
}

func (m *mockBroker) Ledger(ctx context.Context) (chain.InferenceServingLedger, error) {
	return chain.InferenceServingLedger{
		AvailableBalance: big.NewInt(5000),
		TotalBalance:     big.NewInt(6000),
	}, nil
}

func (m *mockBroker) ListRefunds(ctx context.Context, provider common.Address) ([]ledger.Refund, error) {
	return nil, nil
}

func (m *mockBroker) RequestRefund(ctx context.Context, provider common.Address, amount *big.Int) error {
	m.refunds = append(m.refunds, amount)
	return nil
}

func (m *mockBroker) RetrieveAllFunds(ctx context.Context) error { return nil }

func (m *mockBroker) DeleteAccount(ctx context.Context, provider common.Address) error { return nil }

func newTestRouter(m *mockBroker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(m, zap.NewNop()).Register(r.Group("/api"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

const providerPath = "/api/providers/0x2222222222222222222222222222222222222222"

func TestHandleHeaders(t *testing.T) {
	m := &mockBroker{headers: map[string]string{"Nonce": "42"}}
	r := newTestRouter(m)

	w := do(r, http.MethodPost, providerPath+"/headers", `{"content":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"Nonce":"42"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestHandleHeadersMissingContent(t *testing.T) {
	r := newTestRouter(&mockBroker{})
	w := do(r, http.MethodPost, providerPath+"/headers", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestInvalidProviderAddress(t *testing.T) {
	r := newTestRouter(&mockBroker{})
	w := do(r, http.MethodPost, "/api/providers/nonsense/acknowledge", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestErrorTaxonomyMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{chain.ErrAccountNotFound, http.StatusNotFound},
		{chain.ErrInsufficientBalance, http.StatusPaymentRequired},
		{chain.ErrTransactionTimeout, http.StatusGatewayTimeout},
		{settle.ErrProviderNotAcknowledged, http.StatusPreconditionFailed},
		{attest.ErrAcknowledgeInFlight, http.StatusConflict},
	}
	for _, tc := range cases {
		m := &mockBroker{headersErr: tc.err}
		r := newTestRouter(m)
		w := do(r, http.MethodPost, providerPath+"/headers", `{"content":"x"}`)
		if w.Code != tc.want {
			t.Errorf("%v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestHandleRequestRefundValidation(t *testing.T) {
	m := &mockBroker{}
	r := newTestRouter(m)

	w := do(r, http.MethodPost, providerPath+"/refunds", `{"amount":"-5"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative amount: status = %d, want 400", w.Code)
	}
	w = do(r, http.MethodPost, providerPath+"/refunds", `{"amount":"500"}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(m.refunds) != 1 || m.refunds[0].Cmp(big.NewInt(500)) != 0 {
		t.Errorf("refunds = %v", m.refunds)
	}
}

func TestHandleSignerVerifyFlag(t *testing.T) {
	r := newTestRouter(&mockBroker{})

	w := do(r, http.MethodGet, providerPath+"/signer", "")
	if !strings.Contains(w.Body.String(), `"valid":"unknown"`) {
		t.Errorf("unverified body = %s", w.Body.String())
	}
	w = do(r, http.MethodGet, providerPath+"/signer?verify=true", "")
	if !strings.Contains(w.Body.String(), `"valid":"valid"`) {
		t.Errorf("verified body = %s", w.Body.String())
	}
}
