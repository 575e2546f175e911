package schema

import (
	"slices"

	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

var indexTypes = map[FieldKind][]model.IndexKind{
	KindTextLine:   {model.KindField, model.KindText},
	KindBytesLine:  {model.KindField, model.KindText},
	KindText:       {model.KindText},
	KindCollection: {model.KindKeyword},
	KindChoice:     {model.KindField},
	KindBytes:      nil,
	KindObject:     nil,
	KindDict:       nil,
}

// IndexTypes returns the index kinds a field needs, ordered field, keyword,
// text.
func IndexTypes(f Field) []model.IndexKind {
	kinds, ok := indexTypes[f.Kind]
	if !ok {
		return []model.IndexKind{model.KindField}
	}
	return slices.Clone(kinds)
}

// IndexNames returns the index names a field needs.
func IndexNames(f Field) []string {
	kinds := IndexTypes(f)
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = model.IndexName(k, f.Name)
	}
	return out
}

// Indexes flattens the index names of every field in declaration order.
func Indexes(s *Schema) []string {
	var out []string
	for _, f := range s.Fields {
		out = append(out, IndexNames(f)...)
	}
	return out
}

var comparators = map[model.IndexKind][]query.Comparator{
	model.KindField: {
		query.CmpAny,
		query.CmpEq,
		query.CmpGe,
		query.CmpGt,
		query.CmpInRange,
		query.CmpLe,
		query.CmpLt,
		query.CmpNotEq,
		query.CmpNotInRange,
	},
	model.KindKeyword: {
		query.CmpAny,
		query.CmpAll,
		query.CmpDoesNotContain,
	},
	model.KindText: {
		query.CmpContains,
		query.CmpDoesNotContain,
	},
}

// Comparators returns the comparators an index supports, judged by the
// kind prefix of its name.
func Comparators(indexName string) []query.Comparator {
	kind, _, ok := model.SplitIndexName(indexName)
	if !ok {
		return nil
	}
	return slices.Clone(comparators[kind])
}

// FieldComparators returns the sorted union of the comparators of every
// index derived for f.
func FieldComparators(f Field) []query.Comparator {
	var out []query.Comparator
	for _, name := range IndexNames(f) {
		for _, c := range Comparators(name) {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	slices.Sort(out)
	return out
}
