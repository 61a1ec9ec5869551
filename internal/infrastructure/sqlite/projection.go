package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/attrsel/internal/descriptor"
)

var (
	ErrNoColumn       = errors.New("descriptor has no column")
	ErrNotAssociation = errors.New("descriptor is not an association")
)

// Projection builds a SELECT over a root table from resolved descriptors.
// Composed descriptors ("customers.name") are reached through LEFT JOINs
// along their associations; each association path is joined once.
type Projection struct {
	table   string
	columns []string
	labels  []string
	joins   []string
	aliases map[string]string // association path -> table alias
}

// NewProjection starts a projection over table.
func NewProjection(table string) *Projection {
	return &Projection{
		table:   table,
		aliases: map[string]string{"": "t0"},
	}
}

// Add projects each descriptor as a column labelled with its name.
func (p *Projection) Add(ds ...*descriptor.Descriptor) error {
	for _, d := range ds {
		expr, err := p.resolve("", d)
		if err != nil {
			return fmt.Errorf("project %q: %w", d.Name(), err)
		}
		p.columns = append(p.columns, expr+" AS "+quote(d.Name()))
		p.labels = append(p.labels, d.Name())
	}
	return nil
}

func (p *Projection) resolve(path string, d *descriptor.Descriptor) (string, error) {
	if d.IsNested() {
		fk, ok := ForeignKeyOf(d.Parent())
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrNotAssociation, d.Parent().Name())
		}
		return p.resolve(p.join(path, d.Parent().Name(), fk), d.Target())
	}

	c, ok := ColumnOf(d)
	if !ok {
		return "", ErrNoColumn
	}
	return p.aliases[path] + "." + quote(c.Name), nil
}

// join returns the path of the association name below path, adding the
// LEFT JOIN the first time the path is seen.
func (p *Projection) join(path, name string, fk ForeignKey) string {
	next := name
	if path != "" {
		next = path + "." + name
	}
	if _, ok := p.aliases[next]; ok {
		return next
	}

	from := p.aliases[path]
	alias := fmt.Sprintf("t%d", len(p.aliases))
	p.aliases[next] = alias

	conds := make([]string, len(fk.From))
	for i := range fk.From {
		conds[i] = fmt.Sprintf("%s.%s = %s.%s", alias, quote(fk.To[i]), from, quote(fk.From[i]))
	}
	p.joins = append(p.joins, fmt.Sprintf("LEFT JOIN %s AS %s ON %s",
		quote(fk.RefTable), alias, strings.Join(conds, " AND ")))
	return next
}

// Labels returns the column labels in projection order.
func (p *Projection) Labels() []string {
	return append([]string(nil), p.labels...)
}

// SQL renders the statement.
func (p *Projection) SQL() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(p.columns) == 0 {
		b.WriteString("1")
	} else {
		b.WriteString(strings.Join(p.columns, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(quote(p.table))
	b.WriteString(" AS t0")
	for _, j := range p.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	return b.String()
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
