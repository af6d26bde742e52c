package repository

import (
	"context"
	"math"
	"strings"
	"testing"

	"workcafe/database"
	"workcafe/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func blueBottle() model.CafeFields {
	return model.CafeFields{
		Name:        "Blue Bottle",
		MapURL:      "https://maps.example/1",
		ImgURL:      "https://img.example/1",
		Location:    "Downtown",
		Seats:       20,
		CoffeePrice: 3.5,
		HasWifi:     true,
	}
}

func TestCafeCreateThenGet(t *testing.T) {
	repo := NewCafeRepository(newTestDB(t))
	ctx := context.Background()

	fields := blueBottle()
	fields.ShortDescription = "Pour-over and long tables"
	fields.HasSockets = true
	cafe := &model.Cafe{CafeFields: fields}
	require.NoError(t, repo.Create(ctx, cafe))
	require.NotZero(t, cafe.ID)

	got, err := repo.Get(ctx, cafe.ID)
	require.NoError(t, err)
	assert.Equal(t, fields, got.CafeFields)
}

func TestCafeCreateDefaultsAmenitiesToFalse(t *testing.T) {
	repo := NewCafeRepository(newTestDB(t))
	ctx := context.Background()

	cafe := &model.Cafe{CafeFields: blueBottle()}
	require.NoError(t, repo.Create(ctx, cafe))

	got, err := repo.Get(ctx, cafe.ID)
	require.NoError(t, err)
	assert.True(t, got.HasWifi)
	assert.False(t, got.HasSockets)
	assert.False(t, got.HasToilet)
	assert.False(t, got.CanTakeCalls)
}

func TestCafeCreateDuplicateName(t *testing.T) {
	repo := NewCafeRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Cafe{CafeFields: blueBottle()}))

	second := blueBottle()
	second.Location = "Uptown"
	err := repo.Create(ctx, &model.Cafe{CafeFields: second})
	assert.ErrorIs(t, err, ErrDuplicate)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCafeCreateValidation(t *testing.T) {
	repo := NewCafeRepository(newTestDB(t))
	ctx := context.Background()

	fields := blueBottle()
	fields.Name = ""
	fields.MapURL = "not a url"
	fields.Location = strings.Repeat("x", 101)

	err := repo.Create(ctx, &model.Cafe{CafeFields: fields})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "map_url")
	assert.Contains(t, verr.Fields, "location")
	assert.NotContains(t, verr.Fields, "img_url")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCafeCreateRejectsScriptURLsAndNonFinitePrice(t *testing.T) {
	repo := NewCafeRepository(newTestDB(t))
	ctx := context.Background()

	for name, price := range map[string]float64{"inf": math.Inf(1), "nan": math.NaN()} {
		t.Run(name, func(t *testing.T) {
			fields := blueBottle()
			fields.MapURL = "javascript:alert(document.cookie)"
			fields.ImgURL = "mailto:x@example.com"
			fields.CoffeePrice = price

			err := repo.Create(ctx, &model.Cafe{CafeFields: fields})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "map_url")
			assert.Contains(t, verr.Fields, "img_url")
			assert.Equal(t, "The coffee price must be a number.", verr.Fields["coffee_price"])
		})
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCafeUpdate(t *testing.T) {
	repo := NewCafeRepository(newTestDB(t))
	ctx := context.Background()

	cafe := &model.Cafe{CafeFields: blueBottle()}
	require.NoError(t, repo.Create(ctx, cafe))
	created, err := repo.Get(ctx, cafe.ID)
	require.NoError(t, err)

	changed := blueBottle()
	changed.Name = "Blue Bottle Roastery"
	changed.HasWifi = false
	changed.CanTakeCalls = true
	changed.Seats = 45
	changed.CoffeePrice = 4.25

	updated, err := repo.Update(ctx, cafe.ID, changed)
	require.NoError(t, err)
	assert.Equal(t, cafe.ID, updated.ID)

	got, err := repo.Get(ctx, cafe.ID)
	require.NoError(t, err)
	assert.Equal(t, changed, got.CafeFields)
	assert.Equal(t, cafe.ID, got.ID)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestCafeUpdateMissing(t *testing.T) {
	repo := NewCafeRepository(newTestDB(t))

	_, err := repo.Update(context.Background(), 42, blueBottle())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCafeUpdateKeepsOwnNameButRejectsOthers(t *testing.T) {
	repo := NewCafeRepository(newTestDB(t))
	ctx := context.Background()

	first := &model.Cafe{CafeFields: blueBottle()}
	require.NoError(t, repo.Create(ctx, first))
	otherFields := blueBottle()
	otherFields.Name = "Corner Beans"
	other := &model.Cafe{CafeFields: otherFields}
	require.NoError(t, repo.Create(ctx, other))

	same := blueBottle()
	same.Seats = 30
	_, err := repo.Update(ctx, first.ID, same)
	require.NoError(t, err)

	_, err = repo.Update(ctx, other.ID, blueBottle())
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corner Beans", got.Name)
}

func TestCafeDelete(t *testing.T) {
	repo := NewCafeRepository(newTestDB(t))
	ctx := context.Background()

	cafe := &model.Cafe{CafeFields: blueBottle()}
	require.NoError(t, repo.Create(ctx, cafe))
	require.NoError(t, repo.Delete(ctx, cafe.ID))

	_, err := repo.Get(ctx, cafe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, cafe.ID), ErrNotFound)
}

func TestCafeListInInsertionOrder(t *testing.T) {
	repo := NewCafeRepository(newTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		fields := blueBottle()
		fields.Name = name
		require.NoError(t, repo.Create(ctx, &model.Cafe{CafeFields: fields}))
	}

	cafes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cafes, 3)
	assert.Equal(t, "Alpha", cafes[0].Name)
	assert.Equal(t, "Charlie", cafes[2].Name)
}
