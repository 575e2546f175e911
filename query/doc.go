// Package query builds predicate trees over named indexes and defines the
// normalized value domain that both indexed values and query literals live
// in.
//
// Normalization rules:
//
//   - time.Time becomes an Int of whole seconds since the Unix epoch
//   - model.Date becomes an Int of its proleptic ordinal (0001-01-01 = 1)
//   - nil becomes Missing, which sorts after every other value
//   - booleans, numbers and strings keep their meaning
//
// Normalize is idempotent: a Value normalizes to itself.
//
// # Example
//
//	b := query.DefaultBuilder()
//	q, err := b.FromMapping(map[string]any{
//	    "field_favorite_color": "red",
//	    "field_age":            query.With(query.CmpGe, 30),
//	})
package query
