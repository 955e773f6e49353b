package service

import (
	"context"
	"testing"
	"time"

	"pantry-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner int64 = 42

func seedItem(t *testing.T, m *memStore, name string, qty float64, expiresIn time.Duration) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		OwnerID:    testOwner,
		RawName:    name,
		CleanName:  name,
		Category:   "Dairy",
		Quantity:   qty,
		Unit:       "unit",
		Storage:    models.StorageFresh,
		DateAdded:  time.Now(),
		ExpiryDate: time.Now().Add(expiresIn),
		Status:     models.ItemStatusInStock,
	}
	require.NoError(t, m.CreateItem(context.Background(), item))
	return item
}

func newTestEngine(m *memStore) (*ConsumptionEngine, *fakePublisher, *fakeCache) {
	pub := &fakePublisher{}
	cache := newFakeCache()
	return NewConsumptionEngine(m, cache, pub), pub, cache
}

func TestConsumeSelectsSoonestExpiry(t *testing.T) {
	m := newMemStore()
	soon := seedItem(t, m, "milk", 1, 2*24*time.Hour)
	later := seedItem(t, m, "milk", 1, 6*24*time.Hour)
	engine, _, _ := newTestEngine(m)

	report, err := engine.Consume(context.Background(), &ConsumeRequest{
		OwnerID:     testOwner,
		Ingredients: []string{"milk"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Finished 'milk'"}, report.Lines)
	assert.Equal(t, []string{"milk"}, report.DepletedItems)

	got, err := m.GetItemByID(context.Background(), soon.ID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusConsumed, got.Status)
	assert.Equal(t, 1.0, got.Quantity, "terminal transition leaves quantity at its last value")

	untouched, err := m.GetItemByID(context.Background(), later.ID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusInStock, untouched.Status)
}

func TestConsumeDecrementsMultiUnit(t *testing.T) {
	m := newMemStore()
	eggs := seedItem(t, m, "eggs", 12, 18*24*time.Hour)
	engine, pub, _ := newTestEngine(m)

	report, err := engine.Consume(context.Background(), &ConsumeRequest{
		OwnerID:     testOwner,
		Ingredients: []string{"eggs"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Used 1 of 'eggs'. Remaining: 11"}, report.Lines)
	assert.Empty(t, report.DepletedItems)

	got, err := m.GetItemByID(context.Background(), eggs.ID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, 11.0, got.Quantity)
	assert.Equal(t, models.ItemStatusInStock, got.Status)

	require.Len(t, pub.consumed, 1)
	assert.Equal(t, 11.0, pub.consumed[0].Remaining)
	assert.Empty(t, pub.depleted)
}

func TestConsumeNotFound(t *testing.T) {
	m := newMemStore()
	engine, pub, _ := newTestEngine(m)

	for i := 0; i < 2; i++ {
		report, err := engine.Consume(context.Background(), &ConsumeRequest{
			OwnerID:     testOwner,
			Ingredients: []string{"durian"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"'durian' not found"}, report.Lines)
		assert.Empty(t, report.DepletedItems)
	}

	assert.Empty(t, pub.consumed)
	assert.Empty(t, pub.depleted)
}

func TestConsumeStripsFrozenFromQuery(t *testing.T) {
	m := newMemStore()
	seedItem(t, m, "spinach", 2, 5*24*time.Hour)
	engine, _, _ := newTestEngine(m)

	report, err := engine.Consume(context.Background(), &ConsumeRequest{
		OwnerID:     testOwner,
		Ingredients: []string{"Frozen Spinach"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Used 1 of 'spinach'. Remaining: 1"}, report.Lines)
}

func TestConsumeBatchProceedsPastMisses(t *testing.T) {
	m := newMemStore()
	seedItem(t, m, "bread", 1, 5*24*time.Hour)
	seedItem(t, m, "cheese", 3, 10*24*time.Hour)
	engine, pub, _ := newTestEngine(m)

	report, err := engine.Consume(context.Background(), &ConsumeRequest{
		OwnerID:     testOwner,
		Ingredients: []string{"bread", "durian", "cheese"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Finished 'bread'",
		"'durian' not found",
		"Used 1 of 'cheese'. Remaining: 2",
	}, report.Lines)
	assert.Equal(t, []string{"bread"}, report.DepletedItems)
	assert.Len(t, pub.depleted, 1)
	assert.Equal(t, "bread", pub.depleted[0].CleanName)
}

func TestConsumeRoundTripFromCreation(t *testing.T) {
	m := newMemStore()
	item := seedItem(t, m, "milk", 1, 7*24*time.Hour)
	engine, _, _ := newTestEngine(m)

	report, err := engine.Consume(context.Background(), &ConsumeRequest{
		OwnerID:     testOwner,
		Ingredients: []string{"milk"},
	})
	require.NoError(t, err)

	assert.Contains(t, report.DepletedItems, "milk")

	got, err := m.GetItemByID(context.Background(), item.ID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusConsumed, got.Status)
}

func TestConsumeNeverLeavesZeroQuantityInStock(t *testing.T) {
	m := newMemStore()
	seedItem(t, m, "yogurt", 3, 5*24*time.Hour)
	engine, _, _ := newTestEngine(m)

	for i := 0; i < 5; i++ {
		_, err := engine.Consume(context.Background(), &ConsumeRequest{
			OwnerID:     testOwner,
			Ingredients: []string{"yogurt"},
		})
		require.NoError(t, err)

		items, err := m.GetInStock(context.Background(), testOwner)
		require.NoError(t, err)
		for _, item := range items {
			assert.Greater(t, item.Quantity, 0.0)
		}
	}
}

func TestConsumeFractionalLastUnit(t *testing.T) {
	m := newMemStore()
	// A 0.5 lb remnant is the last unit: qty <= 1 is terminal, never a
	// decrement below zero.
	item := seedItem(t, m, "chicken breast", 0.5, 2*24*time.Hour)
	engine, _, _ := newTestEngine(m)

	report, err := engine.Consume(context.Background(), &ConsumeRequest{
		OwnerID:     testOwner,
		Ingredients: []string{"chicken breast"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Finished 'chicken breast'"}, report.Lines)

	got, err := m.GetItemByID(context.Background(), item.ID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusConsumed, got.Status)
	assert.Equal(t, 0.5, got.Quantity)
}

func TestConsumeRetriesOnConflict(t *testing.T) {
	m := newMemStore()
	eggs := seedItem(t, m, "eggs", 6, 10*24*time.Hour)
	m.injectConflicts = 1
	engine, _, _ := newTestEngine(m)

	report, err := engine.Consume(context.Background(), &ConsumeRequest{
		OwnerID:     testOwner,
		Ingredients: []string{"eggs"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Used 1 of 'eggs'. Remaining: 5"}, report.Lines)

	got, err := m.GetItemByID(context.Background(), eggs.ID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Quantity)
}

func TestConsumeGivesUpAfterRepeatedConflicts(t *testing.T) {
	m := newMemStore()
	seedItem(t, m, "eggs", 6, 10*24*time.Hour)
	m.injectConflicts = consumeMaxAttempts
	engine, _, _ := newTestEngine(m)

	report, err := engine.Consume(context.Background(), &ConsumeRequest{
		OwnerID:     testOwner,
		Ingredients: []string{"eggs"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"'eggs' skipped after concurrent update"}, report.Lines)
	assert.Empty(t, report.DepletedItems)
}

func TestConsumeIsOwnerScoped(t *testing.T) {
	m := newMemStore()
	other := &models.InventoryItem{
		OwnerID:    testOwner + 1,
		CleanName:  "milk",
		Quantity:   1,
		Unit:       "gallon",
		Storage:    models.StorageFresh,
		DateAdded:  time.Now(),
		ExpiryDate: time.Now().Add(24 * time.Hour),
		Status:     models.ItemStatusInStock,
	}
	require.NoError(t, m.CreateItem(context.Background(), other))
	engine, _, _ := newTestEngine(m)

	report, err := engine.Consume(context.Background(), &ConsumeRequest{
		OwnerID:     testOwner,
		Ingredients: []string{"milk"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"'milk' not found"}, report.Lines)

	got, err := m.GetItemByID(context.Background(), other.ID, testOwner+1)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusInStock, got.Status)
}

func TestConsumeInvalidatesNameCache(t *testing.T) {
	m := newMemStore()
	seedItem(t, m, "milk", 2, 24*time.Hour)
	engine, _, cache := newTestEngine(m)
	require.NoError(t, cache.SetInStockNames(context.Background(), testOwner, []string{"milk"}))

	_, err := engine.Consume(context.Background(), &ConsumeRequest{
		OwnerID:     testOwner,
		Ingredients: []string{"milk"},
	})
	require.NoError(t, err)

	_, hit, err := cache.GetInStockNames(context.Background(), testOwner)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNormalizeIngredient(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Frozen Spinach", "spinach"},
		{"spinach", "spinach"},
		{"  MILK  ", "milk"},
		{"frozen", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeIngredient(tt.in), "in=%q", tt.in)
	}
}
