// Package index provides the catalog's value indexes and the Indexer that
// evaluates predicate trees over them.
//
// Three index kinds exist:
//
//   - Field: maps each normalized value to the documents holding it. Supports
//     equality, membership and ordered range predicates.
//   - Keyword: maps every element of a collection value to the documents
//     holding it. Supports any/all membership.
//   - Text: maps analyzed tokens to documents. Supports tokenized
//     containment with trailing '*' prefix matching.
//
// All posting sets are 64-bit Roaring Bitmaps over record ids. Signed ids are
// mapped onto the unsigned key space by flipping the sign bit, which keeps
// ascending iteration in ascending RID order.
//
// Indexes never see UIDs. A document is handed to every index together with
// its RID; each index extracts its value with a Discriminator.
package index
