// Package storetest holds behaviour checks shared by every AttendanceStore.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neirocalendar/internal/core"
	"neirocalendar/internal/storage"
)

// Run exercises an AttendanceStore implementation. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) storage.AttendanceStore) {
	ctx := context.Background()

	t.Run("Save assigns id and FindByID returns it", func(t *testing.T) {
		s := newStore(t)
		saved, err := s.Save(ctx, core.NewAttendanceRecord("Анна", core.NewDate(2024, 2, 29)))
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)

		got, ok, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, saved, got)
		assert.False(t, got.Attended)
	})

	t.Run("FindByID of unknown id", func(t *testing.T) {
		s := newStore(t)
		_, ok, err := s.FindByID(ctx, 424242)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Save updates existing record", func(t *testing.T) {
		s := newStore(t)
		saved, err := s.Save(ctx, core.NewAttendanceRecord("Иван", core.NewDate(2024, 3, 5)))
		require.NoError(t, err)

		saved.Attended = true
		updated, err := s.Save(ctx, saved)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, updated.ID)

		got, ok, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.Attended)

		all, err := s.FindByDateRange(ctx, core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31))
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Save with unknown id inserts", func(t *testing.T) {
		s := newStore(t)
		r := core.NewAttendanceRecord("Мария", core.NewDate(2024, 3, 5))
		r.ID = 9999
		saved, err := s.Save(ctx, r)
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)

		_, ok, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("FindByDateRange is inclusive and ordered", func(t *testing.T) {
		s := newStore(t)
		dates := []core.Date{
			core.NewDate(2024, 2, 10),
			core.NewDate(2024, 1, 31),
			core.NewDate(2024, 2, 1),
			core.NewDate(2024, 2, 29),
			core.NewDate(2024, 3, 1),
			core.NewDate(2024, 2, 10),
		}
		for _, d := range dates {
			_, err := s.Save(ctx, core.NewAttendanceRecord("P", d))
			require.NoError(t, err)
		}

		got, err := s.FindByDateRange(ctx, core.NewDate(2024, 2, 1), core.NewDate(2024, 2, 29))
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, core.NewDate(2024, 2, 1), got[0].VisitDate)
		assert.Equal(t, core.NewDate(2024, 2, 10), got[1].VisitDate)
		assert.Equal(t, core.NewDate(2024, 2, 10), got[2].VisitDate)
		assert.Less(t, got[1].ID, got[2].ID)
		assert.Equal(t, core.NewDate(2024, 2, 29), got[3].VisitDate)

		again, err := s.FindByDateRange(ctx, core.NewDate(2024, 2, 1), core.NewDate(2024, 2, 29))
		require.NoError(t, err)
		assert.Equal(t, got, again)
	})

	t.Run("FindByDate", func(t *testing.T) {
		s := newStore(t)
		day := core.NewDate(2024, 5, 7)
		_, err := s.Save(ctx, core.NewAttendanceRecord("A", day))
		require.NoError(t, err)
		_, err = s.Save(ctx, core.NewAttendanceRecord("B", day.AddDays(1)))
		require.NoError(t, err)

		got, err := s.FindByDate(ctx, day)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].PersonName)
	})

	t.Run("DeleteByID is idempotent", func(t *testing.T) {
		s := newStore(t)
		saved, err := s.Save(ctx, core.NewAttendanceRecord("A", core.NewDate(2024, 6, 1)))
		require.NoError(t, err)

		require.NoError(t, s.DeleteByID(ctx, 777777))
		all, err := s.FindByDateRange(ctx, core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31))
		require.NoError(t, err)
		assert.Len(t, all, 1)

		require.NoError(t, s.DeleteByID(ctx, saved.ID))
		require.NoError(t, s.DeleteByID(ctx, saved.ID))
		_, ok, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(ctx))
	})
}
