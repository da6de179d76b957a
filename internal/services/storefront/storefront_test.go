package storefront

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/financeacademytj/storefront-bot/internal/config"
	"github.com/financeacademytj/storefront-bot/internal/lib/telegram"
	"github.com/financeacademytj/storefront-bot/internal/models"
	"github.com/financeacademytj/storefront-bot/internal/services/ledger"
	"github.com/financeacademytj/storefront-bot/internal/storage/jsonfile"
	"github.com/financeacademytj/storefront-bot/internal/storage/repository"
)

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) SendMessage(ctx context.Context, p telegram.SendMessageParams) error {
	return m.Called(ctx, p).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(t *testing.T, cfg *config.Config) (*Service, *ledger.Ledger, *repository.Users, *GatewayMock) {
	t.Helper()
	log := newNoopLogger()
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = time.Second
	}

	store := jsonfile.New(filepath.Join(t.TempDir(), "users.json"), log)
	users := repository.New(store, log)
	l := ledger.New(users, log)
	gw := &GatewayMock{}

	svc := New(users, l, gw, cfg, log)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return svc, l, users, gw
}

var visitor = telegram.User{ID: 42, FirstName: "Umed", LastName: "R", Username: "umed_tj"}

func TestService_Start(t *testing.T) {
	cfg := &config.Config{OperatorID: 500}
	svc, _, users, gw := newTestService(t, cfg)

	gw.On("SendMessage", mock.Anything, mock.MatchedBy(func(p telegram.SendMessageParams) bool {
		return p.ChatID == 500
	})).Return(nil).Once()

	rec := svc.Start(context.Background(), visitor)

	assert.Equal(t, "Umed", rec.FirstName)
	assert.Equal(t, "umed_tj", rec.Handle)
	assert.Equal(t, int64(1700000000), rec.StartedAt)
	assert.Equal(t, rec, users.Get(42))
	gw.AssertExpectations(t)
}

func TestService_Start_NoOperatorConfigured(t *testing.T) {
	svc, _, _, gw := newTestService(t, &config.Config{})

	svc.Start(context.Background(), visitor)

	gw.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestService_Touch_PreservesProfile(t *testing.T) {
	svc, _, users, _ := newTestService(t, &config.Config{})
	svc.Start(context.Background(), visitor)

	svc.Touch(visitor, "hello")

	rec := users.Get(42)
	assert.Equal(t, int64(1700000000), rec.StartedAt)
	assert.Equal(t, "hello", rec.LastMessage)
}

func TestService_SelectPlan(t *testing.T) {
	cfg := &config.Config{OperatorID: 500}
	svc, _, users, gw := newTestService(t, cfg)

	gw.On("SendMessage", mock.Anything, mock.Anything).Return(nil).Once()

	svc.SelectPlan(context.Background(), visitor, models.PlanPro)

	rec := users.Get(42)
	assert.Equal(t, "PRO", rec.LastSelectedPlan)
	assert.Equal(t, int64(1700000000), rec.LastSelectedPlanAt)
}

func TestService_SubmitPaymentClaim(t *testing.T) {
	cfg := &config.Config{OperatorID: 500}
	svc, l, _, gw := newTestService(t, cfg)

	var operatorText string
	gw.On("SendMessage", mock.Anything, mock.MatchedBy(func(p telegram.SendMessageParams) bool {
		operatorText = p.Text
		return p.ChatID == 500
	})).Return(nil).Once()

	require.NoError(t, svc.SubmitPaymentClaim(context.Background(), visitor, models.PlanVIP))

	assert.Equal(t, models.StatusRequested, l.Status(42, models.PlanVIP))
	assert.Contains(t, operatorText, "/approve 42 VIP")
	assert.Contains(t, operatorText, "/deny 42 VIP")
}

func TestService_SubmitPaymentClaim_OperatorUnreachable(t *testing.T) {
	cfg := &config.Config{OperatorID: 500}
	svc, l, _, gw := newTestService(t, cfg)

	gw.On("SendMessage", mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()

	// сбой уведомления не отменяет заявку
	require.NoError(t, svc.SubmitPaymentClaim(context.Background(), visitor, models.PlanBasic))
	assert.Equal(t, models.StatusRequested, l.Status(42, models.PlanBasic))
}

func TestService_Account(t *testing.T) {
	svc, l, users, _ := newTestService(t, &config.Config{})
	users.Patch(42, models.UserPatch{FirstName: models.Ptr("Umed")})

	summary := svc.Account(42)
	assert.False(t, summary.HasAccess)
	assert.False(t, svc.HasAccess(42))

	require.NoError(t, l.Request(42, models.PlanBasic))
	require.NoError(t, l.Approve(42, models.PlanBasic))

	summary = svc.Account(42)
	assert.True(t, summary.HasAccess)
	assert.Equal(t, models.PlanBasic, summary.Approved)
	assert.True(t, svc.HasAccess(42))
}
