package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pantry-service/internal/models"
	"pantry-service/internal/store"
)

// memStore is an in-memory ItemStore with the same selection and
// conditional-update semantics as the Postgres store.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	items    map[int64]*models.InventoryItem
	shopping []*models.ShoppingListEntry

	// injectConflicts makes the next N conditional updates fail with
	// ErrConflict, simulating a lost race.
	injectConflicts int

	// failShoppingDelete forces DeleteShoppingEntriesByName to fail.
	failShoppingDelete error
}

func newMemStore() *memStore {
	return &memStore{items: make(map[int64]*models.InventoryItem)}
}

func (m *memStore) CreateItem(_ context.Context, item *models.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	item.ID = m.nextID
	item.UpdatedAt = time.Now()
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *memStore) GetItemByID(_ context.Context, id, ownerID int64) (*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok || item.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *memStore) GetInStock(_ context.Context, ownerID int64) ([]models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.InventoryItem
	for _, item := range m.items {
		if item.OwnerID == ownerID && item.Status == models.ItemStatusInStock {
			out = append(out, *item)
		}
	}
	sortByExpiryThenID(out)
	return out, nil
}

func (m *memStore) GetExpiringSoon(_ context.Context, ownerID int64, withinDays int) ([]models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, withinDays)
	var out []models.InventoryItem
	for _, item := range m.items {
		if item.OwnerID == ownerID && item.Status == models.ItemStatusInStock && !item.ExpiryDate.After(cutoff) {
			out = append(out, *item)
		}
	}
	sortByExpiryThenID(out)
	return out, nil
}

func (m *memStore) FindConsumptionCandidate(_ context.Context, ownerID int64, term string) (*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var candidates []models.InventoryItem
	for _, item := range m.items {
		if item.OwnerID == ownerID && item.Status == models.ItemStatusInStock &&
			strings.Contains(item.CleanName, term) {
			candidates = append(candidates, *item)
		}
	}
	if len(candidates) == 0 {
		return nil, store.ErrNotFound
	}
	sortByExpiryThenID(candidates)
	copied := candidates[0]
	return &copied, nil
}

func (m *memStore) DecrementQuantity(_ context.Context, id, ownerID int64, expectedQty float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.injectConflicts > 0 {
		m.injectConflicts--
		return store.ErrConflict
	}

	item, ok := m.items[id]
	if !ok || item.OwnerID != ownerID || item.Status != models.ItemStatusInStock || item.Quantity != expectedQty {
		return store.ErrConflict
	}
	item.Quantity--
	item.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) MarkConsumed(_ context.Context, id, ownerID int64, expectedQty float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.injectConflicts > 0 {
		m.injectConflicts--
		return store.ErrConflict
	}

	item, ok := m.items[id]
	if !ok || item.OwnerID != ownerID || item.Status != models.ItemStatusInStock || item.Quantity != expectedQty {
		return store.ErrConflict
	}
	item.Status = models.ItemStatusConsumed
	item.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) DeleteItem(_ context.Context, id, ownerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok || item.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) AddShoppingEntry(_ context.Context, entry *models.ShoppingListEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.shopping {
		if existing.OwnerID == entry.OwnerID && existing.ItemName == entry.ItemName {
			return nil
		}
	}
	m.nextID++
	entry.ID = m.nextID
	copied := *entry
	m.shopping = append(m.shopping, &copied)
	return nil
}

func (m *memStore) GetShoppingList(_ context.Context, ownerID int64) ([]models.ShoppingListEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.ShoppingListEntry
	for _, entry := range m.shopping {
		if entry.OwnerID == ownerID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (m *memStore) DeleteShoppingEntriesByName(_ context.Context, ownerID int64, itemName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failShoppingDelete != nil {
		return m.failShoppingDelete
	}

	kept := m.shopping[:0]
	for _, entry := range m.shopping {
		if entry.OwnerID != ownerID || entry.ItemName != itemName {
			kept = append(kept, entry)
		}
	}
	m.shopping = kept
	return nil
}

func sortByExpiryThenID(items []models.InventoryItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].ExpiryDate.Equal(items[j].ExpiryDate) {
			return items[i].ExpiryDate.Before(items[j].ExpiryDate)
		}
		return items[i].ID < items[j].ID
	})
}

// fakePublisher records published events.
type fakePublisher struct {
	mu       sync.Mutex
	added    []*models.ItemAddedEvent
	consumed []*models.ItemConsumedEvent
	depleted []*models.ItemDepletedEvent
}

func (p *fakePublisher) PublishItemAdded(_ context.Context, e *models.ItemAddedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.added = append(p.added, e)
	return nil
}

func (p *fakePublisher) PublishItemConsumed(_ context.Context, e *models.ItemConsumedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consumed = append(p.consumed, e)
	return nil
}

func (p *fakePublisher) PublishItemDepleted(_ context.Context, e *models.ItemDepletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.depleted = append(p.depleted, e)
	return nil
}

// fakeCache is a NameCache that records invalidations.
type fakeCache struct {
	mu            sync.Mutex
	names         map[int64][]string
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{names: make(map[int64][]string)}
}

func (c *fakeCache) GetInStockNames(_ context.Context, ownerID int64) ([]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	names, ok := c.names[ownerID]
	return names, ok, nil
}

func (c *fakeCache) SetInStockNames(_ context.Context, ownerID int64, names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[ownerID] = names
	return nil
}

func (c *fakeCache) InvalidateNames(_ context.Context, ownerID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.names, ownerID)
	c.invalidations++
	return nil
}
