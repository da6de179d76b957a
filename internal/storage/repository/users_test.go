package repository

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financeacademytj/storefront-bot/internal/models"
	"github.com/financeacademytj/storefront-bot/internal/storage/jsonfile"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestUsers(t *testing.T) (*Users, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	users := New(jsonfile.New(path, newNoopLogger()), newNoopLogger())
	users.now = func() time.Time { return time.Unix(1700000000, 0) }
	return users, path
}

func TestUsers_Get_UnknownID(t *testing.T) {
	users, path := newTestUsers(t)

	rec := users.Get(42)

	assert.Equal(t, models.UserRecord{}, rec)
	assert.Equal(t, models.StatusNone, rec.PurchaseStatus(models.PlanBasic))

	// чтение не должно ничего персистить
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestUsers_Patch_MergesFields(t *testing.T) {
	users, _ := newTestUsers(t)

	users.Patch(42, models.UserPatch{
		FirstName: models.Ptr("Umed"),
		Handle:    models.Ptr("umed_tj"),
	})
	merged := users.Patch(42, models.UserPatch{
		LastMessage:   models.Ptr("salom"),
		LastMessageAt: models.Ptr(int64(1700000000)),
	})

	// непатченные поля сохраняются
	assert.Equal(t, "Umed", merged.FirstName)
	assert.Equal(t, "umed_tj", merged.Handle)
	assert.Equal(t, "salom", merged.LastMessage)

	got := users.Get(42)
	assert.Equal(t, merged, got)
}

func TestUsers_Patch_IndependentUsers(t *testing.T) {
	users, _ := newTestUsers(t)

	users.Patch(1, models.UserPatch{FirstName: models.Ptr("A")})
	users.Patch(2, models.UserPatch{FirstName: models.Ptr("B")})

	assert.Equal(t, "A", users.Get(1).FirstName)
	assert.Equal(t, "B", users.Get(2).FirstName)
}

func TestUsers_UpdatePurchase(t *testing.T) {
	users, _ := newTestUsers(t)

	err := users.UpdatePurchase(42, models.PlanPro, func(current models.Status) (models.Status, error) {
		require.Equal(t, models.StatusNone, current)
		return models.StatusRequested, nil
	})
	require.NoError(t, err)

	rec := users.Get(42)
	assert.Equal(t, models.StatusRequested, rec.PurchaseStatus(models.PlanPro))
	assert.Equal(t, int64(1700000000), rec.Purchases[models.PlanPro].UpdatedAt)
}

func TestUsers_UpdatePurchase_ErrorLeavesStateIntact(t *testing.T) {
	users, _ := newTestUsers(t)
	errBoom := errors.New("boom")

	require.NoError(t, users.UpdatePurchase(42, models.PlanPro, func(models.Status) (models.Status, error) {
		return models.StatusRequested, nil
	}))

	err := users.UpdatePurchase(42, models.PlanPro, func(current models.Status) (models.Status, error) {
		assert.Equal(t, models.StatusRequested, current)
		return "", errBoom
	})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, models.StatusRequested, users.Get(42).PurchaseStatus(models.PlanPro))
}

func TestUsers_Locale(t *testing.T) {
	tests := []struct {
		name string
		set  string
		want models.Locale
	}{
		{name: "supported tj", set: "tj", want: models.LocaleTJ},
		{name: "supported ru uppercase", set: "RU", want: models.LocaleRU},
		{name: "unsupported falls back to default", set: "xx", want: models.DefaultLocale},
		{name: "empty falls back to default", set: "", want: models.DefaultLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _ := newTestUsers(t)

			got := users.SetLocale(42, tt.set)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, users.GetLocale(42))
			// значение персистится уже приведённым
			assert.Equal(t, string(tt.want), users.Get(42).Locale)
		})
	}
}

func TestUsers_GetLocale_UnsetDoesNotPersistFallback(t *testing.T) {
	users, _ := newTestUsers(t)
	users.Patch(42, models.UserPatch{FirstName: models.Ptr("Umed")})

	assert.Equal(t, models.DefaultLocale, users.GetLocale(42))
	assert.Equal(t, "", users.Get(42).Locale)
}

func TestUsers_All(t *testing.T) {
	users, _ := newTestUsers(t)
	users.Patch(1, models.UserPatch{FirstName: models.Ptr("A")})
	users.Patch(2, models.UserPatch{FirstName: models.Ptr("B")})

	all := users.All()

	require.Len(t, all, 2)
	assert.Equal(t, "A", all[1].FirstName)
	assert.Equal(t, "B", all[2].FirstName)
}
