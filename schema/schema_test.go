package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

func personSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := New("person",
		Field{Name: "name", Kind: KindTextLine},
		Field{Name: "url", Kind: KindBytesLine},
		Field{Name: "ignore", Kind: KindBytes},
		Field{Name: "biography", Kind: KindText},
		Field{Name: "number", Kind: KindInt},
		Field{Name: "date", Kind: KindDate},
		Field{Name: "subjects", Kind: KindCollection},
	)
	require.NoError(t, err)
	return s
}

func TestIndexes(t *testing.T) {
	s := personSchema(t)

	assert.Equal(t, []string{
		"field_name", "text_name",
		"field_url", "text_url",
		"text_biography",
		"field_number",
		"field_date",
		"keyword_subjects",
	}, Indexes(s))
}

func TestIndexTypes(t *testing.T) {
	tests := []struct {
		kind FieldKind
		want []model.IndexKind
	}{
		{KindTextLine, []model.IndexKind{model.KindField, model.KindText}},
		{KindText, []model.IndexKind{model.KindText}},
		{KindCollection, []model.IndexKind{model.KindKeyword}},
		{KindChoice, []model.IndexKind{model.KindField}},
		{KindDict, []model.IndexKind{}},
		{KindObject, []model.IndexKind{}},
		{KindFloat, []model.IndexKind{model.KindField}},
		{FieldKind("custom"), []model.IndexKind{model.KindField}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := IndexTypes(Field{Name: "f", Kind: tt.kind})
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComparators(t *testing.T) {
	assert.Equal(t, []query.Comparator{query.CmpContains, query.CmpDoesNotContain}, Comparators("text_name"))
	assert.Equal(t, []query.Comparator{query.CmpAny, query.CmpAll, query.CmpDoesNotContain}, Comparators("keyword_tags"))
	assert.Len(t, Comparators("field_name"), 9)
	assert.Nil(t, Comparators("bogus"))
	assert.Nil(t, Comparators("vector_x"))
}

func TestFieldComparators(t *testing.T) {
	got := FieldComparators(Field{Name: "name", Kind: KindTextLine})
	assert.Len(t, got, 11)
	assert.Contains(t, got, query.CmpContains)
	assert.Contains(t, got, query.CmpInRange)
	assert.True(t, isSorted(got))

	assert.Empty(t, FieldComparators(Field{Name: "blob", Kind: KindBytes}))
}

func isSorted(cs []query.Comparator) bool {
	for i := 1; i < len(cs); i++ {
		if cs[i-1] > cs[i] {
			return false
		}
	}
	return true
}

func TestValidate(t *testing.T) {
	_, err := New("s", Field{Name: "a"}, Field{Name: "a"})
	assert.ErrorIs(t, err, retrieval.ErrDuplicateKey)

	_, err = New("s", Field{Kind: KindInt})
	assert.ErrorIs(t, err, retrieval.ErrInvalidArgument)

	assert.Panics(t, func() { MustNew("s", Field{}) })
}

const personYAML = `
name: person
fields:
  - name: name
    kind: textline
  - name: subjects
    kind: list
  - name: born
    kind: Date
`

func TestLoad(t *testing.T) {
	s, err := Load(strings.NewReader(personYAML))
	require.NoError(t, err)

	assert.Equal(t, "person", s.Name)
	assert.Equal(t, []string{"name", "subjects", "born"}, s.FieldNames())

	f, ok := s.Field("subjects")
	require.True(t, ok)
	assert.Equal(t, KindCollection, f.Kind)

	f, ok = s.Field("born")
	require.True(t, ok)
	assert.Equal(t, KindDate, f.Kind)

	_, ok = s.Field("missing")
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader("name: x\nunknown: 1\n"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("name: x\nfields:\n  - name: a\n  - name: a\n"))
	assert.ErrorIs(t, err, retrieval.ErrDuplicateKey)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "person.yaml")
	require.NoError(t, os.WriteFile(path, []byte(personYAML), 0o600))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, s.Fields, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestManager(t *testing.T) {
	reg := NewMapRegistry()
	m := NewManager(reg)

	person := personSchema(t)
	place := MustNew("place", Field{Name: "city", Kind: KindTextLine})

	require.NoError(t, m.Bind(person))
	require.NoError(t, m.Bind(place))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"person", "place"}, m.Keys())

	err := m.Bind(person)
	require.ErrorIs(t, err, retrieval.ErrDuplicateKey)

	got, ok := m.Get("person")
	require.True(t, ok)
	assert.Same(t, person, got)
	assert.True(t, m.Contains("place"))

	reg.Unregister("place")
	assert.Equal(t, []string{"place"}, m.Orphans())
	assert.Equal(t, []*Schema{person, nil}, m.Values())

	m.Forget("place")
	m.Forget("place")
	assert.False(t, m.Contains("place"))
	assert.Empty(t, m.Orphans())

	_, ok = m.Get("place")
	assert.False(t, ok)

	m.Restore([]string{"person", "gone"})
	assert.Equal(t, []string{"gone"}, m.Orphans())
}
