// Package catalog indexes schema-described documents keyed by UID and
// answers predicate queries with lazily resolved results.
//
// A Catalog owns a uidmap.Mapper assigning each document UID a record id
// and an index.Indexer holding one index per name derived from the bound
// schema. Documents themselves are never stored: results and the mapping
// accessors fetch them through the injected model.Resolver on every access.
//
// Basic usage:
//
//	s, _ := schema.LoadFile("person.yaml")
//	items := resolver.NewMap(nil)
//	c, _ := catalog.New(s, items)
//
//	_, _ = items.Put(doc.UID(), doc)
//	_, _ = c.Index(ctx, doc)
//
//	res, _ := c.QueryMapping(ctx, map[string]any{
//	    "field_color": "red",
//	    "text_bio":    "quick",
//	})
//	for item, err := range res.All() {
//	    ...
//	}
//
// Snapshots of the mapping and every index are written to a
// blobstore.BlobStore with Save and read back with Load.
package catalog
