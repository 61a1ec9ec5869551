package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"slices"

	"go.uber.org/multierr"

	"github.com/zjrosen/attrsel/internal/catalog"
	"github.com/zjrosen/attrsel/internal/config"
	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/infrastructure/sqlite"
	"github.com/zjrosen/attrsel/internal/introspect"
	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/metrics"
	"github.com/zjrosen/attrsel/internal/presentation"
	"github.com/zjrosen/attrsel/internal/registry"
	"github.com/zjrosen/attrsel/internal/server"
	"github.com/zjrosen/attrsel/internal/tracing"
)

var errUnknownType = errors.New("unknown type")

// environment holds everything a command resolves against: the catalog,
// the optional SQLite schema and store, and the provider built over them.
type environment struct {
	cfg      config.Config
	metrics  *metrics.Metrics
	source   *catalog.Source
	provider *registry.Provider
	schema   *sqlite.SchemaRegistrar
	builtins *introspect.Registrar
	types    server.TypeLister

	schemaConn *sql.DB
	store      *sqlite.DB
}

// openEnvironment builds the environment described by c. m may be nil.
func openEnvironment(ctx context.Context, c config.Config, m *metrics.Metrics) (*environment, error) {
	env := &environment{cfg: c, metrics: m}

	if c.Database.CatalogStore != "" {
		store, err := sqlite.NewDB(c.Database.CatalogStore)
		if err != nil {
			return nil, fmt.Errorf("opening catalog store: %w", err)
		}
		env.store = store
	}

	initial, err := env.loadCatalog(ctx)
	if err != nil {
		_ = env.Close()
		return nil, err
	}
	env.source = catalog.NewSource(initial, catalog.WithSourceMetrics(m))

	env.builtins, err = builtinTypes()
	if err != nil {
		_ = env.Close()
		return nil, err
	}

	registrars := []registry.Registrar{env.source, env.builtins}
	if c.Database.Path != "" {
		conn, err := sqlite.OpenReadOnly(c.Database.Path)
		if err != nil {
			_ = env.Close()
			return nil, err
		}
		env.schemaConn = conn
		env.schema = sqlite.NewSchemaRegistrar(conn)
		registrars = append(registrars, env.schema)
	}

	env.provider = registry.NewProvider(
		registry.WithRegistrars(registrars...),
		registry.WithMetrics(m),
	)
	env.source.SetFlusher(env.provider)

	listers := []server.TypeLister{server.CatalogTypes(env.source)}
	if env.schema != nil {
		listers = append(listers, server.SchemaTypes(env.schema, env.provider))
	}
	listers = append(listers, server.IntrospectTypes(env.builtins, env.provider))
	env.types = server.MultiTypes(listers...)
	return env, nil
}

// builtinTypes binds the configuration structs under the attrsel namespace,
// so `attrsel resolve attrsel.Config 'catalog.*'` selects config keys.
func builtinTypes() (*introspect.Registrar, error) {
	r := introspect.NewRegistrar(introspect.WithNameTag("mapstructure"))
	binds := []struct {
		v    any
		name string
	}{
		{config.CatalogConfig{}, "attrsel.CatalogConfig"},
		{config.DatabaseConfig{}, "attrsel.DatabaseConfig"},
		{config.ServerConfig{}, "attrsel.ServerConfig"},
		{tracing.Config{}, "attrsel.TracingConfig"},
		{config.LogConfig{}, "attrsel.LogConfig"},
		{config.Config{}, "attrsel.Config"},
	}
	for _, b := range binds {
		if _, err := r.Bind(reflect.TypeOf(b.v), b.name); err != nil {
			return nil, fmt.Errorf("binding %s: %w", b.name, err)
		}
	}
	return r, nil
}

// loadCatalog reads the catalog store when one is configured, the YAML
// catalog directory otherwise. A missing directory yields an empty catalog.
func (e *environment) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if e.store != nil {
		c, err := e.store.CatalogStore().Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading catalog store: %w", err)
		}
		return c, nil
	}

	dir := e.cfg.Catalog.Dir
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		log.Warn(log.CatCatalog, "catalog directory does not exist", "dir", dir)
		return catalog.New()
	}
	c, err := catalog.Load(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", dir, err)
	}
	return c, nil
}

// reload re-reads the YAML catalog and, with a store configured, saves
// the new catalog to it.
func (e *environment) reload(ctx context.Context) error {
	if err := e.source.Reload(os.DirFS(e.cfg.Catalog.Dir)); err != nil {
		return err
	}
	if e.store == nil {
		return nil
	}
	_, err := e.store.CatalogStore().Save(ctx, e.source.Catalog())
	return err
}

// registry returns the registry of a known type.
func (e *environment) registry(ctx context.Context, name string) (*registry.Registry, error) {
	types, err := e.types.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(types, func(t presentation.TypeDTO) bool { return t.Name == name }) {
		return nil, fmt.Errorf("%w: %q", errUnknownType, name)
	}
	return e.provider.Get(descriptor.Named(name))
}

// isTable reports whether name is a table of the schema database.
func (e *environment) isTable(ctx context.Context, name string) (bool, error) {
	if e.schema == nil {
		return false, nil
	}
	tables, err := e.schema.Tables(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(tables, name), nil
}

// Close releases the databases.
func (e *environment) Close() error {
	var err error
	if e.source != nil {
		e.source.Close()
	}
	if e.schemaConn != nil {
		err = multierr.Append(err, e.schemaConn.Close())
	}
	if e.store != nil {
		err = multierr.Append(err, e.store.Close())
	}
	return err
}
