package jsonfile

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financeacademytj/storefront-bot/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return New(path, newNoopLogger()), path
}

func TestStore_Read_MissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	records := store.Read()

	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStore_Read_EmptyFile(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	assert.Empty(t, store.Read())
}

func TestStore_Read_MalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{{{"},
		{name: "array instead of object", content: `[1, 2, 3]`},
		{name: "scalar", content: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := newTestStore(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			assert.Empty(t, store.Read())
		})
	}
}

func TestStore_Read_SkipsMalformedRecord(t *testing.T) {
	store, path := newTestStore(t)
	content := `{
  "100": {"first_name": "Umed", "locale": "tj"},
  "200": "not an object"
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records := store.Read()

	require.Len(t, records, 1)
	assert.Equal(t, "Umed", records["100"].FirstName)
}

func TestStore_WriteRead_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	store.Write(map[string]models.UserRecord{
		"100": {
			FirstName: "Umed",
			Locale:    "tj",
			Purchases: map[models.Plan]models.PurchaseEntry{
				models.PlanBasic: {Status: models.StatusRequested, UpdatedAt: 1700000000},
			},
		},
	})

	records := store.Read()
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusRequested, records["100"].PurchaseStatus(models.PlanBasic))
	assert.Equal(t, int64(1700000000), records["100"].Purchases[models.PlanBasic].UpdatedAt)
}

func TestStore_Write_NoStaleTempFile(t *testing.T) {
	store, path := newTestStore(t)

	store.Write(map[string]models.UserRecord{"1": {FirstName: "A"}})

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

// Сценарий падения между подготовкой и заменой: недописанный временный файл
// не должен быть виден читателям, старое содержимое остаётся целым.
func TestStore_Read_IgnoresStagedTempFile(t *testing.T) {
	store, path := newTestStore(t)

	store.Write(map[string]models.UserRecord{"1": {FirstName: "Old"}})
	require.NoError(t, os.WriteFile(path+".tmp", []byte(`{"1": {"first_name": "Ha`), 0o644))

	records := store.Read()
	require.Len(t, records, 1)
	assert.Equal(t, "Old", records["1"].FirstName)
}

func TestStore_Update_ReadModifyWrite(t *testing.T) {
	store, _ := newTestStore(t)
	store.Write(map[string]models.UserRecord{"1": {FirstName: "A"}})

	store.Update(func(records map[string]models.UserRecord) {
		rec := records["1"]
		rec.LastMessage = "hello"
		records["1"] = rec
		records["2"] = models.UserRecord{FirstName: "B"}
	})

	records := store.Read()
	assert.Equal(t, "hello", records["1"].LastMessage)
	assert.Equal(t, "B", records["2"].FirstName)
}

func TestStore_Update_ConcurrentSameID(t *testing.T) {
	store, _ := newTestStore(t)

	const n = 20
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			store.Update(func(records map[string]models.UserRecord) {
				rec := records["1"]
				rec.StartedAt++
				records["1"] = rec
			})
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}

	records := store.Read()
	assert.Equal(t, int64(n), records["1"].StartedAt)
}

func TestStore_Write_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "users.json")
	store := New(path, newNoopLogger())

	store.Write(map[string]models.UserRecord{"1": {FirstName: "A"}})

	assert.Len(t, store.Read(), 1)
}
