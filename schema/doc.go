// Package schema describes document schemas and derives the indexes a
// catalog needs for them.
//
// Every field kind maps to a fixed set of index kinds:
//
//	textline, bytesline  field + text
//	text                 text
//	list, set, tuple     keyword
//	choice               field
//	bytes, object, dict  (none)
//	anything else        field
//
// Index names are "<kind>_<field>" and are listed in field declaration
// order, field before keyword before text within one field.
package schema
