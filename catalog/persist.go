package catalog

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/blobstore"
	"github.com/hupe1980/retrieval/index"
	"github.com/hupe1980/retrieval/schema"
	"github.com/hupe1980/retrieval/snapshot"
	"github.com/hupe1980/retrieval/uidmap"
)

// State is the persistent content of a catalog.
//
// NOTE: This is encoded into snapshots; keep it stable.
type State struct {
	Schema  *schema.Schema `msgpack:"schema" json:"schema"`
	// Mapping holds the UID↔RID pairs in the uidmap binary format.
	Mapping []byte         `msgpack:"mapping" json:"mapping"`
	Indexes []index.State  `msgpack:"indexes" json:"indexes"`
}

// Snapshot captures the schema, the UID↔RID pairs and every index.
func (c *Catalog) Snapshot() (*State, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	states, err := c.indexer.Export()
	if err != nil {
		return nil, err
	}
	var mapping bytes.Buffer
	if err := c.mapper.Save(&mapping); err != nil {
		return nil, fmt.Errorf("save mapping: %w", err)
	}
	return &State{
		Schema:  c.schema,
		Mapping: mapping.Bytes(),
		Indexes: states,
	}, nil
}

// Restore replaces the catalog content with st. The catalog is left
// unchanged when st is inconsistent: every record id held by an index must
// be bound to a UID.
//
// Index states the schema no longer derives are skipped; derived indexes
// missing from st start empty.
func (c *Catalog) Restore(st *State) error {
	if st == nil {
		return retrieval.InvalidArgumentf("missing catalog state")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.schema
	if st.Schema != nil {
		if err := st.Schema.Validate(); err != nil {
			return fmt.Errorf("restore schema: %w", err)
		}
		s = st.Schema
	}

	mapper := uidmap.New(c.opts.mapperOptions...)
	if err := mapper.Load(bytes.NewReader(st.Mapping)); err != nil {
		return fmt.Errorf("restore mapping: %w", err)
	}

	indexer := index.NewIndexer()
	for _, name := range schema.Indexes(s) {
		idx, err := index.ForName(name, c.opts.analyzer)
		if err != nil {
			return fmt.Errorf("make index %s: %w", name, err)
		}
		indexer.Set(idx)
	}
	skipped, err := indexer.Import(st.Indexes)
	if err != nil {
		return fmt.Errorf("restore indexes: %w", err)
	}
	if len(skipped) > 0 {
		c.logger.Warn("skipped index states not derived from schema", "indexes", skipped)
	}

	for rid := range indexer.DocIDs().All() {
		if _, ok := mapper.UIDFor(rid); !ok {
			return retrieval.NewKeyError("restore", rid, retrieval.ErrInvalidArgument)
		}
	}

	c.schema = s
	c.mapper = mapper
	c.indexer = indexer
	if c.cache != nil {
		c.cache.Purge()
	}
	return nil
}

// Save writes a snapshot of the catalog to store under name, encoded with
// the configured snapshot codec and compression.
func (c *Catalog) Save(ctx context.Context, store blobstore.BlobStore, name string) error {
	err := c.save(ctx, store, name)
	c.logger.LogSnapshot(ctx, "save", name, err)
	return err
}

func (c *Catalog) save(ctx context.Context, store blobstore.BlobStore, name string) error {
	st, err := c.Snapshot()
	if err != nil {
		return err
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := snapshot.Encode(w, st, c.opts.snapshot); err != nil {
		_ = w.Abort()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return w.Close()
}

// Load restores the catalog from the snapshot stored under name. Missing
// snapshots fail with an error matching blobstore.ErrNotFound.
func (c *Catalog) Load(ctx context.Context, store blobstore.BlobStore, name string) error {
	err := c.load(ctx, store, name)
	c.logger.LogSnapshot(ctx, "load", name, err)
	return err
}

func (c *Catalog) load(ctx context.Context, store blobstore.BlobStore, name string) error {
	r, err := store.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer r.Close()

	var st State
	if _, err := snapshot.Decode(r, &st); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return c.Restore(&st)
}
