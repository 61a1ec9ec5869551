package server

import (
	"context"

	"github.com/zjrosen/attrsel/internal/catalog"
	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/infrastructure/sqlite"
	"github.com/zjrosen/attrsel/internal/introspect"
	"github.com/zjrosen/attrsel/internal/presentation"
)

// CatalogTypes lists the types of the catalog src currently holds.
func CatalogTypes(src interface{ Catalog() *catalog.Catalog }) TypeLister {
	return TypeListerFunc(func(context.Context) ([]presentation.TypeDTO, error) {
		types := src.Catalog().Types()
		dtos := make([]presentation.TypeDTO, len(types))
		for i, td := range types {
			dtos[i] = presentation.TypeDTO{
				Name:        td.Name,
				Description: td.Description,
				Properties:  len(td.Properties),
				Source:      td.Source,
			}
		}
		return dtos, nil
	})
}

// SchemaTypes lists the tables of a SQLite schema; property counts come
// from the registries built for them.
func SchemaTypes(schema *sqlite.SchemaRegistrar, registries Registries) TypeLister {
	return TypeListerFunc(func(ctx context.Context) ([]presentation.TypeDTO, error) {
		tables, err := schema.Tables(ctx)
		if err != nil {
			return nil, err
		}
		dtos := make([]presentation.TypeDTO, 0, len(tables))
		for _, table := range tables {
			reg, err := registries.Get(descriptor.Named(table))
			if err != nil {
				return nil, err
			}
			dtos = append(dtos, presentation.TypeDTO{
				Name:       table,
				Properties: len(reg.RegisteredDescriptors()),
				Source:     "sqlite",
			})
		}
		return dtos, nil
	})
}

// IntrospectTypes lists the Go struct types bound to r.
func IntrospectTypes(r *introspect.Registrar, registries Registries) TypeLister {
	return TypeListerFunc(func(context.Context) ([]presentation.TypeDTO, error) {
		types := r.Types()
		dtos := make([]presentation.TypeDTO, 0, len(types))
		for _, t := range types {
			reg, err := registries.Get(t)
			if err != nil {
				return nil, err
			}
			dto := presentation.TypeDTO{
				Name:       string(t),
				Properties: len(reg.RegisteredDescriptors()),
				Source:     "go",
			}
			if rt, ok := r.GoType(t); ok {
				dto.Description = rt.String()
			}
			dtos = append(dtos, dto)
		}
		return dtos, nil
	})
}

// MultiTypes concatenates listers; a name listed twice keeps its first entry.
func MultiTypes(listers ...TypeLister) TypeLister {
	return TypeListerFunc(func(ctx context.Context) ([]presentation.TypeDTO, error) {
		var all []presentation.TypeDTO
		seen := make(map[string]bool)
		for _, l := range listers {
			types, err := l.ListTypes(ctx)
			if err != nil {
				return nil, err
			}
			for _, t := range types {
				if seen[t.Name] {
					continue
				}
				seen[t.Name] = true
				all = append(all, t)
			}
		}
		return all, nil
	})
}
