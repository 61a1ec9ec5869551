package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/registry"
	"github.com/zjrosen/attrsel/internal/selector"
)

// Column is attached to every descriptor derived from a table column.
type Column struct {
	Table      string
	Name       string
	SQLType    string
	NotNull    bool
	PrimaryKey bool
}

// ForeignKey is attached to association descriptors. From and To pair up
// the referencing and referenced columns.
type ForeignKey struct {
	Table    string
	From     []string
	RefTable string
	To       []string
}

// ColumnOf returns the column d was derived from.
func ColumnOf(d *descriptor.Descriptor) (Column, bool) {
	return descriptor.AttrOf[Column](d)
}

// ForeignKeyOf returns the foreign key behind an association descriptor.
func ForeignKeyOf(d *descriptor.Descriptor) (ForeignKey, bool) {
	return descriptor.AttrOf[ForeignKey](d)
}

// SchemaRegistrar turns SQLite tables into types: table t becomes type t,
// its columns become properties and its foreign keys become associations
// named after the referenced table.
type SchemaRegistrar struct {
	conn *sql.DB
}

var _ registry.Registrar = (*SchemaRegistrar)(nil)

// NewSchemaRegistrar creates a registrar reading the schema of conn.
func NewSchemaRegistrar(conn *sql.DB) *SchemaRegistrar {
	return &SchemaRegistrar{conn: conn}
}

// Tables lists the user tables of the schema.
func (s *SchemaRegistrar) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations'
		ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// RegisterProperties registers the columns and associations of table t.
// Types that are not tables are left empty.
func (s *SchemaRegistrar) RegisterProperties(t descriptor.Type, r *registry.Registry) error {
	ctx := context.Background()
	table := string(t)

	columns, err := s.columns(ctx, table)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}

	for _, c := range columns {
		if !selector.ValidName(c.Name) {
			log.Warn(log.CatSchema, "skipping column with unselectable name", "table", table, "column", c.Name)
			continue
		}
		b := descriptor.NewBuilder(c.Name).
			ValueType(columnType(c.SQLType)).
			Hidden(c.PrimaryKey)
		descriptor.PutType(b, c)
		d, err := b.Build()
		if err != nil {
			return fmt.Errorf("table %s: %w", table, err)
		}
		if err := r.Register(d); err != nil {
			return err
		}
	}

	keys, err := s.foreignKeys(ctx, table)
	if err != nil {
		return err
	}
	for _, fk := range keys {
		name := associationName(r, fk)
		if !selector.ValidName(name) {
			log.Warn(log.CatSchema, "skipping association with unselectable name", "table", table, "references", fk.RefTable)
			continue
		}
		b := descriptor.NewBuilder(name).ValueType(descriptor.Named(fk.RefTable))
		descriptor.PutType(b, fk)
		d, err := b.Build()
		if err != nil {
			return fmt.Errorf("table %s: %w", table, err)
		}
		if err := r.Register(d); err != nil {
			return err
		}
	}

	log.Debug(log.CatSchema, "registered table", "table", table, "columns", len(columns), "associations", len(keys))
	return nil
}

// associationName is the referenced table unless a property of that name
// exists already; then the referencing column without its _id suffix.
func associationName(r *registry.Registry, fk ForeignKey) string {
	if !r.Contains(fk.RefTable) {
		return fk.RefTable
	}
	base := strings.TrimSuffix(fk.From[0], "_id")
	if base == fk.From[0] || r.Contains(base) {
		return fk.RefTable + "_by_" + fk.From[0]
	}
	return base
}

func (s *SchemaRegistrar) columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT name, type, "notnull", pk FROM pragma_table_info(?) ORDER BY cid`, table,
	)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		c := Column{Table: table}
		var pk int
		if err := rows.Scan(&c.Name, &c.SQLType, &c.NotNull, &pk); err != nil {
			return nil, fmt.Errorf("table info %s: %w", table, err)
		}
		c.PrimaryKey = pk > 0
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

func (s *SchemaRegistrar) foreignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, "table", "from", COALESCE("to", '') FROM pragma_foreign_key_list(?) ORDER BY id, seq`, table,
	)
	if err != nil {
		return nil, fmt.Errorf("foreign keys %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var keys []ForeignKey
	last := -1
	for rows.Next() {
		var id int
		var ref, from, to string
		if err := rows.Scan(&id, &ref, &from, &to); err != nil {
			return nil, fmt.Errorf("foreign keys %s: %w", table, err)
		}
		if id != last {
			keys = append(keys, ForeignKey{Table: table, RefTable: ref})
			last = id
		}
		fk := &keys[len(keys)-1]
		fk.From = append(fk.From, from)
		fk.To = append(fk.To, to)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// pragma_foreign_key_list reports keys in reverse declaration order.
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}

	// REFERENCES t without a column list targets t's primary key.
	for i := range keys {
		if keys[i].To[0] != "" {
			continue
		}
		pk, err := s.primaryKey(ctx, keys[i].RefTable)
		if err != nil {
			return nil, err
		}
		if len(pk) == len(keys[i].From) {
			keys[i].To = pk
		}
	}
	return keys, nil
}

func (s *SchemaRegistrar) primaryKey(ctx context.Context, table string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`, table,
	)
	if err != nil {
		return nil, fmt.Errorf("primary key %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var pk []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		pk = append(pk, name)
	}
	return pk, rows.Err()
}

// columnType maps a declared SQLite column type to a value type.
func columnType(declared string) descriptor.Type {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared == "" {
		return descriptor.Any
	}
	if i := strings.IndexByte(declared, '('); i > 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	return descriptor.Named(declared)
}
