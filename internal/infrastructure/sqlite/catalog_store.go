package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zjrosen/attrsel/internal/catalog"
	"github.com/zjrosen/attrsel/internal/log"
)

// CatalogStore persists catalog type definitions.
type CatalogStore struct {
	db *sql.DB
}

func newCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// typeRow is the catalog_types row of one type.
type typeRow struct {
	Name         string
	Position     int
	Description  string
	DefaultOrder string // JSON array
	Source       string
	Checksum     string
}

// propertyRow is the catalog_properties row of one property.
type propertyRow struct {
	Position     int
	Name         string
	ValueType    string
	DisplayName  string
	Description  string
	DisplayOrder int
	Hidden       bool
	Readable     *bool  // nullable
	Writable     *bool  // nullable
	Attributes   string // JSON object
}

// Save replaces the stored catalog with c. Types whose definition did not
// change keep their rows. Returns the number of types written.
func (s *CatalogStore) Save(ctx context.Context, c *catalog.Catalog) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored, err := checksums(ctx, tx)
	if err != nil {
		return 0, err
	}

	written := 0
	keep := make(map[string]bool)
	for i, td := range c.Types() {
		row, err := toTypeRow(i, td)
		if err != nil {
			return 0, err
		}
		keep[td.Name] = true

		if stored[td.Name] == row.Checksum {
			if _, err := tx.ExecContext(ctx,
				"UPDATE catalog_types SET position = ? WHERE name = ?", row.Position, row.Name,
			); err != nil {
				return 0, fmt.Errorf("update type %s: %w", td.Name, err)
			}
			continue
		}
		if err := writeType(ctx, tx, row, td); err != nil {
			return 0, err
		}
		written++
	}

	for name := range stored {
		if keep[name] {
			continue
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM catalog_types WHERE name = ?", name); err != nil {
			return 0, fmt.Errorf("delete type %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	log.Info(log.CatCatalog, "catalog saved", "types", len(keep), "written", written)
	return written, nil
}

func checksums(ctx context.Context, tx *sql.Tx) (map[string]string, error) {
	rows, err := tx.QueryContext(ctx, "SELECT name, checksum FROM catalog_types")
	if err != nil {
		return nil, fmt.Errorf("query types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sums := make(map[string]string)
	for rows.Next() {
		var name, sum string
		if err := rows.Scan(&name, &sum); err != nil {
			return nil, err
		}
		sums[name] = sum
	}
	return sums, rows.Err()
}

func writeType(ctx context.Context, tx *sql.Tx, row typeRow, td catalog.TypeDef) error {
	// Deleting the type cascades to its properties.
	if _, err := tx.ExecContext(ctx, "DELETE FROM catalog_types WHERE name = ?", row.Name); err != nil {
		return fmt.Errorf("replace type %s: %w", row.Name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalog_types (name, position, description, default_order, source, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.Name, row.Position, row.Description, row.DefaultOrder, row.Source, row.Checksum, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("insert type %s: %w", row.Name, err)
	}

	for i, p := range td.Properties {
		pr, err := toPropertyRow(i, p)
		if err != nil {
			return fmt.Errorf("type %s: %w", row.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_properties (
				type_name, position, name, value_type, display_name, description,
				display_order, hidden, readable, writable, attributes
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.Name, pr.Position, pr.Name, pr.ValueType, pr.DisplayName, pr.Description,
			pr.DisplayOrder, pr.Hidden, pr.Readable, pr.Writable, pr.Attributes,
		); err != nil {
			return fmt.Errorf("insert property %s.%s: %w", row.Name, p.Name, err)
		}
	}
	return nil
}

// Load reads the stored catalog. An empty store yields an empty catalog.
func (s *CatalogStore) Load(ctx context.Context) (*catalog.Catalog, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, position, description, default_order, source, checksum FROM catalog_types ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("query types: %w", err)
	}

	var types []typeRow
	for rows.Next() {
		var r typeRow
		if err := rows.Scan(&r.Name, &r.Position, &r.Description, &r.DefaultOrder, &r.Source, &r.Checksum); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan type: %w", err)
		}
		types = append(types, r)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	defs := make([]catalog.TypeDef, 0, len(types))
	for _, r := range types {
		td, err := s.loadType(ctx, r)
		if err != nil {
			return nil, err
		}
		defs = append(defs, td)
	}
	return catalog.New(defs...)
}

func (s *CatalogStore) loadType(ctx context.Context, r typeRow) (catalog.TypeDef, error) {
	td := catalog.TypeDef{Name: r.Name, Description: r.Description, Source: r.Source}
	if err := json.Unmarshal([]byte(r.DefaultOrder), &td.DefaultOrder); err != nil {
		return td, fmt.Errorf("type %s: decode default_order: %w", r.Name, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, name, value_type, display_name, description,
			display_order, hidden, readable, writable, attributes
		FROM catalog_properties WHERE type_name = ? ORDER BY position`,
		r.Name,
	)
	if err != nil {
		return td, fmt.Errorf("query properties of %s: %w", r.Name, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var pr propertyRow
		if err := rows.Scan(
			&pr.Position, &pr.Name, &pr.ValueType, &pr.DisplayName, &pr.Description,
			&pr.DisplayOrder, &pr.Hidden, &pr.Readable, &pr.Writable, &pr.Attributes,
		); err != nil {
			return td, fmt.Errorf("scan property of %s: %w", r.Name, err)
		}
		p, err := fromPropertyRow(pr)
		if err != nil {
			return td, fmt.Errorf("type %s: %w", r.Name, err)
		}
		td.Properties = append(td.Properties, p)
	}
	return td, rows.Err()
}

func toTypeRow(position int, td catalog.TypeDef) (typeRow, error) {
	order := td.DefaultOrder
	if order == nil {
		order = []string{}
	}
	encoded, err := json.Marshal(order)
	if err != nil {
		return typeRow{}, err
	}

	// Source is not part of the definition; moving a type between files
	// does not rewrite it.
	def := td
	def.Source = ""
	body, err := json.Marshal(def)
	if err != nil {
		return typeRow{}, fmt.Errorf("type %s: %w", td.Name, err)
	}
	sum := sha256.Sum256(body)

	return typeRow{
		Name:         td.Name,
		Position:     position,
		Description:  td.Description,
		DefaultOrder: string(encoded),
		Source:       td.Source,
		Checksum:     hex.EncodeToString(sum[:]),
	}, nil
}

func toPropertyRow(position int, p catalog.PropertyDef) (propertyRow, error) {
	attrs := p.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return propertyRow{}, fmt.Errorf("property %s: encode attributes: %w", p.Name, err)
	}
	return propertyRow{
		Position:     position,
		Name:         p.Name,
		ValueType:    p.Type,
		DisplayName:  p.DisplayName,
		Description:  p.Description,
		DisplayOrder: p.Order,
		Hidden:       p.Hidden,
		Readable:     p.Readable,
		Writable:     p.Writable,
		Attributes:   string(encoded),
	}, nil
}

func fromPropertyRow(pr propertyRow) (catalog.PropertyDef, error) {
	p := catalog.PropertyDef{
		Name:        pr.Name,
		Type:        pr.ValueType,
		DisplayName: pr.DisplayName,
		Description: pr.Description,
		Order:       pr.DisplayOrder,
		Hidden:      pr.Hidden,
		Readable:    pr.Readable,
		Writable:    pr.Writable,
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(pr.Attributes), &attrs); err != nil {
		return p, fmt.Errorf("property %s: decode attributes: %w", pr.Name, err)
	}
	if len(attrs) > 0 {
		p.Attributes = attrs
	}
	return p, nil
}
