// Package retrieval provides an embedded search and indexing engine for
// documents identified by a UUID.
//
// Documents are described by a schema. Each schema field derives one or
// more indexes (exact-match field indexes, keyword set indexes, tokenized
// text indexes), and queries are boolean trees of predicates over those
// indexes. Results are ordered, keyed by UID and resolved lazily: the
// engine stores record ids, never the documents themselves.
//
// # Quick Start
//
//	s, _ := schema.New("person",
//	    schema.Field{Name: "name", Kind: schema.KindTextLine},
//	    schema.Field{Name: "color", Kind: schema.KindChoice},
//	    schema.Field{Name: "tags", Kind: schema.KindCollection},
//	)
//
//	items := resolver.NewMap(nil)
//	c, _ := catalog.New(s, items, catalog.WithLogger(retrieval.NewJSONLogger(slog.LevelInfo)))
//
//	_, _ = items.Put(doc.UID(), doc)
//	_, _ = c.Index(ctx, doc)
//
//	res, _ := c.Query(ctx, query.And(
//	    query.Eq("field_color", "red"),
//	    query.Any("keyword_tags", "go", "search"),
//	))
//	for item, err := range res.All() {
//	    fmt.Println(item.UID, item.Value, err)
//	}
//
// # Query Mappings
//
// A mapping of index name to value ANDs one predicate per entry. The
// comparator of a bare value is chosen by index prefix: text_ uses
// Contains, keyword_ uses Any, everything else Eq.
//
//	n, _ := c.RCountMapping(ctx, map[string]any{
//	    "text_name": "alice",
//	    "field_age": query.With(query.CmpInRange, 18, 65),
//	})
//
// # Result Algebra
//
// Results combine with Union, Intersection and Difference. Union keeps the
// receiver's order followed by the other operand's new members;
// Intersection follows the smaller operand; Difference keeps the
// receiver's order.
//
// # Persistence
//
// Catalog snapshots (the UID↔RID mapping and every posting list) are
// written to a blobstore.BlobStore (memory, local directory, MinIO or S3)
// inside a checksummed envelope compressed with zstd or lz4.
//
// # Packages
//
//   - model: UID, RID, dates, index names
//   - uidmap: UID↔RID bijection with random id generation
//   - query: value normalization and predicate trees
//   - index: field, keyword and text indexes over Roaring bitmaps
//   - schema: field kinds and index derivation
//   - result: lazy search results and collections
//   - resolver: item resolvers, including an LRU cache
//   - catalog: the engine tying everything together
//   - codec, snapshot, blobstore: persistence
package retrieval
