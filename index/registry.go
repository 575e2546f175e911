package index

import (
	"fmt"
	"sync"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
)

// Factory constructs an index for a field. analyzer may be nil.
type Factory func(name, field string, analyzer Analyzer) Index

var (
	factoryMu sync.RWMutex
	factories = map[model.IndexKind]Factory{
		model.KindField: func(name, field string, _ Analyzer) Index {
			return NewFieldIndex(name, ValueDiscriminator{Field: field})
		},
		model.KindKeyword: func(name, field string, _ Analyzer) Index {
			return NewKeywordIndex(name, ValueDiscriminator{Field: field})
		},
		model.KindText: func(name, field string, a Analyzer) Index {
			return NewTextIndex(name, ValueDiscriminator{Field: field}, a)
		},
	}
)

// RegisterFactory replaces the constructor used for an index kind.
func RegisterFactory(kind model.IndexKind, f Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[kind] = f
}

// ForName builds the index named "<kind>_<field>", reading the field with a
// ValueDiscriminator.
func ForName(name string, analyzer Analyzer) (Index, error) {
	kind, field, ok := model.SplitIndexName(name)
	if !ok {
		return nil, retrieval.InvalidArgumentf("index name %q is not <kind>_<field>", name)
	}

	factoryMu.RLock()
	f, ok := factories[kind]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown index kind: %s", kind)
	}
	return f(name, field, analyzer), nil
}
