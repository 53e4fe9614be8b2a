package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neirocalendar/internal/config"
	"neirocalendar/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:    "memory",
		MemorySeedFile: "seed.txt",
		AMQPURL:        "amqp://localhost:5672/",
		AMQPExchange:   "ex",
		AMQPQueue:      "q",
	}

	got, err := FromAppConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, MemoryBackend, got.Type)
	assert.Equal(t, "seed.txt", got.MemorySeedFile)
	assert.Equal(t, "ex", got.AMQPExchange)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.Error(t, err)

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
	assert.NoError(t, Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: "postgres"}.Validate())
}

func TestCreateBackend_Memory(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.txt")
	require.NoError(t, os.WriteFile(seed, []byte("2024-02-29;Анна;1\n2024-03-01;Борис\n"), 0o600))

	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend, MemorySeedFile: seed})
	require.NoError(t, err)
	defer res.Cleanup()

	assert.Nil(t, res.Publisher)
	assert.Empty(t, res.ServiceOptions())

	recs, err := res.Store.FindByDate(context.Background(), core.NewDate(2024, 2, 29))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Анна", recs[0].PersonName)
	assert.True(t, recs[0].Attended)
}

func TestCreateBackend_MemoryBadSeed(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.txt")
	require.NoError(t, os.WriteFile(seed, []byte("not a record\n"), 0o600))

	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, MemorySeedFile: seed})
	assert.Error(t, err)
}

func TestCreateBackend_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "calendar.db")

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)

	saved, err := res.Store.Save(context.Background(), core.NewAttendanceRecord("Анна", core.NewDate(2024, 2, 10)))
	require.NoError(t, err)
	assert.Positive(t, saved.ID)

	require.NoError(t, res.Cleanup())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
