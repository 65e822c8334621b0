package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/repository"
)

func newSignatureService(t *testing.T, routes map[string]reply) (*SignatureService, *fakeAPI) {
	api, f := newFakeAPI(t, routes)
	svc := NewSignatureService(repository.NewSignatureRepo(api))
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.FixedZone("EST", -5*3600)) }
	return svc, f
}

func TestSignValidatesBeforeCalling(t *testing.T) {
	svc, f := newSignatureService(t, nil)
	ctx := context.Background()

	_, err := svc.Sign(ctx, "s1", "   ", true)
	assert.ErrorIs(t, err, ErrSignatureName)
	_, err = svc.Sign(ctx, "s1", "Ada Lovelace", false)
	assert.ErrorIs(t, err, ErrNotAgreed)
	assert.Empty(t, f.requests())
}

func TestSign(t *testing.T) {
	svc, f := newSignatureService(t, map[string]reply{
		"POST /api/v1/signatures/public/sign/s1": ok(`{"status":"success","next_step":"payment","submission_id":"s1"}`),
	})
	res, err := svc.Sign(context.Background(), "s1", " Ada Lovelace ", true)
	require.NoError(t, err)
	assert.Equal(t, "payment", res.NextStep)

	body := requireCalls(t, f, 1)[0].body
	assert.Equal(t, map[string]any{
		"signature_name": "Ada Lovelace",
		"signature_date": "2026-10-14T14:30:00Z",
	}, body)
}

func TestSignBackendFailure(t *testing.T) {
	svc, _ := newSignatureService(t, map[string]reply{
		"POST /api/v1/signatures/public/sign/s1": {status: http.StatusBadRequest, body: `{"detail":"Submission already signed"}`},
	})
	_, err := svc.Sign(context.Background(), "s1", "Ada", true)
	assert.ErrorIs(t, err, ErrSignatureFailed)
	assert.Equal(t, http.StatusBadRequest, backend.StatusOf(err))
	assert.False(t, Invalid(err))
}

func TestPay(t *testing.T) {
	svc, f := newSignatureService(t, map[string]reply{
		"POST /api/v1/signatures/public/pay/s1": ok(`{"status":"success","payment_status":"succeeded"}`),
	})
	res, err := svc.Pay(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", res.PaymentStatus)
	assert.Nil(t, requireCalls(t, f, 1)[0].body)

	_, err = svc.Pay(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.True(t, backend.IsNotFound(err))
}
