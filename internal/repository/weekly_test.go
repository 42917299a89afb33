package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/plan"
	"github.com/pageza/mealplanner/backend/internal/testhelpers"
)

func TestFetchAllOrdersByPosition(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewWeeklyRepository(db)
	ctx := context.Background()

	testhelpers.SeedEntry(t, db, "http://c", 9)
	testhelpers.SeedEntry(t, db, "http://a", 0)
	testhelpers.SeedEntry(t, db, "http://b", 4)

	entries, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []int{0, 4, 9}, []int{entries[0].Position, entries[1].Position, entries[2].Position})
}

func TestUpdatePositionRewritesDayAndMeal(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewWeeklyRepository(db)
	ctx := context.Background()

	entry := testhelpers.SeedEntry(t, db, "http://a", 0)

	require.NoError(t, repo.UpdatePosition(ctx, entry.ID, 11))

	var got models.MealEntry
	require.NoError(t, db.First(&got, "id = ?", entry.ID).Error)
	assert.Equal(t, 11, got.Position)
	assert.Equal(t, "Saturday", got.DayName)
	assert.Equal(t, "Dinner", got.MealType)
}

func TestUpdatePositionRejectsBadSlot(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewWeeklyRepository(db)
	entry := testhelpers.SeedEntry(t, db, "http://a", 0)

	err := repo.UpdatePosition(context.Background(), entry.ID, 14)
	assert.ErrorIs(t, err, plan.ErrOutOfRange)
}

func TestUpdatePositionMissing(t *testing.T) {
	repo := NewWeeklyRepository(testhelpers.NewSQLiteDB(t))
	id := uuid.New()

	err := repo.UpdatePosition(context.Background(), id, 3)
	assert.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, id, nf.ID)
}

func TestSwapPositions(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewWeeklyRepository(db)
	ctx := context.Background()

	a := testhelpers.SeedEntry(t, db, "http://a", 3)
	b := testhelpers.SeedEntry(t, db, "http://b", 7)

	oldA, oldB, err := repo.SwapPositions(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, oldA)
	assert.Equal(t, 7, oldB)

	var gotA, gotB models.MealEntry
	require.NoError(t, db.First(&gotA, "id = ?", a.ID).Error)
	require.NoError(t, db.First(&gotB, "id = ?", b.ID).Error)

	assert.Equal(t, 7, gotA.Position)
	assert.Equal(t, "Thursday", gotA.DayName)
	assert.Equal(t, "Dinner", gotA.MealType)

	assert.Equal(t, 3, gotB.Position)
	assert.Equal(t, "Tuesday", gotB.DayName)
	assert.Equal(t, "Dinner", gotB.MealType)
}

func TestSwapPositionsMissingLeavesRowsUntouched(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewWeeklyRepository(db)
	a := testhelpers.SeedEntry(t, db, "http://a", 3)
	missing := uuid.New()

	_, _, err := repo.SwapPositions(context.Background(), a.ID, missing)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, missing, nf.ID)

	var got models.MealEntry
	require.NoError(t, db.First(&got, "id = ?", a.ID).Error)
	assert.Equal(t, 3, got.Position)
	assert.Equal(t, "Tuesday", got.DayName)
}

func TestReplaceAll(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewWeeklyRepository(db)
	ctx := context.Background()

	testhelpers.SeedEntry(t, db, "http://old", 5)

	entries, err := repo.ReplaceAll(ctx, []plan.Assignment{
		{URL: "http://a", Slot: 0},
		{URL: "http://a", Slot: 2},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	all, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, e := range all {
		require.NotNil(t, e.Link)
		assert.Equal(t, "http://a", *e.Link)
	}
	assert.Equal(t, "Tuesday", all[1].DayName)
}

func TestReplaceAllRollsBackOnFailure(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewWeeklyRepository(db)
	ctx := context.Background()

	testhelpers.SeedEntry(t, db, "http://old", 5)

	_, err := repo.ReplaceAll(ctx, []plan.Assignment{
		{URL: "http://a", Slot: 0},
		{URL: "http://bad", Slot: 99},
	})
	require.Error(t, err)

	all, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "http://old", *all[0].Link)
}

func TestOccupiedBy(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewWeeklyRepository(db)
	ctx := context.Background()

	a := testhelpers.SeedEntry(t, db, "http://a", 4)
	b := testhelpers.SeedEntry(t, db, "http://b", 4)

	ids, err := repo.OccupiedBy(ctx, 4, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, ids)

	ids, err = repo.OccupiedBy(ctx, 6, a.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReplaceAllWithNothingClearsPlan(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewWeeklyRepository(db)
	ctx := context.Background()

	entries, err := repo.ReplaceAll(ctx, []plan.Assignment{{URL: "http://a", Slot: 13}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEqual(t, uuid.Nil, entries[0].ID)
	assert.Equal(t, "Sunday", entries[0].DayName)

	entries, err = repo.ReplaceAll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)

	all, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NoError(t, repo.Ping(ctx))
}
