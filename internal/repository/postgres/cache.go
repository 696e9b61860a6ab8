package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"clubrenting-backend/internal/domain"
	"clubrenting-backend/internal/logger"
	"clubrenting-backend/internal/repository"

	_ "github.com/lib/pq"
)

// inventoryCache mirrors the remote catalog in two local tables,
// sections and inventory_items. Attributes and price are stored
// JSON-encoded so the table layout survives catalog schema additions.
type inventoryCache struct {
	db *sql.DB
}

func NewInventoryCache(db *sql.DB) repository.InventoryCache {
	return &inventoryCache{db: db}
}

func (c *inventoryCache) ReadAll(ctx context.Context) (map[domain.Section][]domain.InventoryItem, error) {
	logger.DatabaseCall("ReadAll", "sections, inventory_items")
	// Both tables are read inside one read-only transaction so a
	// concurrent WriteAll can never show half a catalog.
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin cache read: %w", err)
	}
	defer tx.Rollback()

	sections := make(map[string]domain.Section)
	catalog := make(map[domain.Section][]domain.InventoryItem)

	rows, err := tx.QueryContext(ctx, `SELECT id, display_name FROM sections`)
	if err != nil {
		return nil, fmt.Errorf("read cached sections: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.Section
		if err := rows.Scan(&s.ID, &s.DisplayName); err != nil {
			return nil, err
		}
		sections[s.ID] = s
		catalog[s] = []domain.InventoryItem{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := tx.QueryContext(ctx, `SELECT id, display_name, section_id, quantity, attributes, price FROM inventory_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read cached items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var (
			item      domain.InventoryItem
			sectionID string
			attrsJSON []byte
			priceJSON sql.NullString
		)
		if err := itemRows.Scan(&item.ID, &item.DisplayName, &sectionID, &item.Quantity, &attrsJSON, &priceJSON); err != nil {
			return nil, err
		}
		section, ok := sections[sectionID]
		if !ok {
			return nil, fmt.Errorf("cached item %s references unknown section %s", item.ID, sectionID)
		}
		item.Section = section
		if err := json.Unmarshal(attrsJSON, &item.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes of cached item %s: %w", item.ID, err)
		}
		if priceJSON.Valid {
			var price domain.Price
			if err := json.Unmarshal([]byte(priceJSON.String), &price); err != nil {
				return nil, fmt.Errorf("decode price of cached item %s: %w", item.ID, err)
			}
			item.Price = &price
		}
		catalog[section] = append(catalog[section], item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	return catalog, tx.Commit()
}

func (c *inventoryCache) WriteAll(ctx context.Context, sections []domain.Section, items []domain.InventoryItem) error {
	logger.DatabaseCall("WriteAll", "sections, inventory_items", "sections", len(sections), "items", len(items))
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache write: %w", err)
	}
	defer tx.Rollback()

	// Clear-then-insert: WriteAll is a full idempotent replace.
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_items`); err != nil {
		return fmt.Errorf("clear cached items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections`); err != nil {
		return fmt.Errorf("clear cached sections: %w", err)
	}

	for _, s := range sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (id, display_name) VALUES ($1, $2)`,
			s.ID, s.DisplayName,
		); err != nil {
			return fmt.Errorf("cache section %s: %w", s.ID, err)
		}
	}

	for _, item := range items {
		attrsJSON, err := json.Marshal(item.Attributes)
		if err != nil {
			return fmt.Errorf("encode attributes of item %s: %w", item.ID, err)
		}
		var priceJSON sql.NullString
		if item.Price != nil {
			encoded, err := json.Marshal(item.Price)
			if err != nil {
				return fmt.Errorf("encode price of item %s: %w", item.ID, err)
			}
			priceJSON = sql.NullString{String: string(encoded), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO inventory_items (id, display_name, section_id, quantity, attributes, price) VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.DisplayName, item.Section.ID, item.Quantity, attrsJSON, priceJSON,
		); err != nil {
			return fmt.Errorf("cache item %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

func (c *inventoryCache) Dispose(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache dispose: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_items`); err != nil {
		return fmt.Errorf("dispose cached items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections`); err != nil {
		return fmt.Errorf("dispose cached sections: %w", err)
	}
	return tx.Commit()
}
