package store

import (
	"context"

	"pantry-service/internal/models"
)

// AddShoppingEntry inserts a shopping-list row unless the owner already has
// one with the same name.
func (s *Store) AddShoppingEntry(ctx context.Context, entry *models.ShoppingListEntry) error {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM shopping_list WHERE owner_id = $1 AND item_name = $2)",
		entry.OwnerID, entry.ItemName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	query := `
		INSERT INTO shopping_list (owner_id, item_name, is_urgent, estimated_price, barcode)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return s.db.GetContext(ctx, &entry.ID, query,
		entry.OwnerID, entry.ItemName, entry.IsUrgent, entry.EstimatedPrice, entry.Barcode)
}

// GetShoppingList retrieves all shopping-list entries for an owner.
func (s *Store) GetShoppingList(ctx context.Context, ownerID int64) ([]models.ShoppingListEntry, error) {
	var entries []models.ShoppingListEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM shopping_list WHERE owner_id = $1 ORDER BY is_urgent DESC, id ASC", ownerID)
	return entries, err
}

// DeleteShoppingEntriesByName removes every shopping-list row for the owner
// with a matching name. Used after a purchase moves the item into inventory.
func (s *Store) DeleteShoppingEntriesByName(ctx context.Context, ownerID int64, itemName string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM shopping_list WHERE owner_id = $1 AND item_name = $2", ownerID, itemName)
	return err
}
