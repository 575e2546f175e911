package result

import (
	"iter"
	"maps"
	"slices"

	"github.com/hupe1980/retrieval"
	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

// Collection is an eager, read-only UID-keyed collection that keeps the
// order of its construction input. It may additionally carry local names
// mapped to UIDs; several names may point at the same UID.
type Collection struct {
	uids    []model.UID
	items   map[model.UID]any
	names   map[string]model.UID
	aliases map[model.UID][]string
}

// NewCollection creates a collection from items in order. names is
// optional. Item UIDs are canonicalized; duplicates keep the first
// position and the last value.
func NewCollection(items []Item, names map[string]model.UID) (*Collection, error) {
	c := &Collection{items: make(map[model.UID]any, len(items))}
	for _, it := range items {
		uid, err := model.ParseUID(it.UID)
		if err != nil {
			return nil, err
		}
		if _, dup := c.items[uid]; !dup {
			c.uids = append(c.uids, uid)
		}
		c.items[uid] = it.Value
	}
	c.setNames(names)
	return c, nil
}

// CollectionFromMap creates a collection ordered by UID.
func CollectionFromMap(m map[model.UID]any, names map[string]model.UID) (*Collection, error) {
	items := make([]Item, 0, len(m))
	for _, uid := range slices.Sorted(maps.Keys(m)) {
		items = append(items, Item{UID: uid, Value: m[uid]})
	}
	return NewCollection(items, names)
}

func (c *Collection) setNames(names map[string]model.UID) {
	if names == nil {
		c.names, c.aliases = nil, nil
		return
	}
	c.names = maps.Clone(names)
	c.aliases = make(map[model.UID][]string)
	for _, name := range slices.Sorted(maps.Keys(names)) {
		uid := names[name]
		c.aliases[uid] = append(c.aliases[uid], name)
	}
}

// Len returns the number of members.
func (c *Collection) Len() int { return len(c.uids) }

// Keys returns the UIDs in order.
func (c *Collection) Keys() []model.UID { return slices.Clone(c.uids) }

// Contains reports whether the UID derived from spec is a member.
func (c *Collection) Contains(spec any) bool {
	uid, err := model.ParseUID(spec)
	if err != nil {
		return false
	}
	_, ok := c.items[uid]
	return ok
}

// Get returns the member for spec. A nil item is a miss.
func (c *Collection) Get(spec any) (any, bool) {
	uid, err := model.ParseUID(spec)
	if err != nil {
		return nil, false
	}
	v, ok := c.items[uid]
	if !ok || query.IsNil(v) {
		return nil, false
	}
	return v, true
}

// GetOr is like Get but returns def on a miss.
func (c *Collection) GetOr(spec, def any) any {
	if v, ok := c.Get(spec); ok {
		return v
	}
	return def
}

// Item is like Get but reports a miss as ErrNotFound.
func (c *Collection) Item(spec any) (any, error) {
	if v, ok := c.Get(spec); ok {
		return v, nil
	}
	return nil, retrieval.NewKeyError("item", spec, retrieval.ErrNotFound)
}

// Values returns the items in order.
func (c *Collection) Values() []any {
	out := make([]any, len(c.uids))
	for i, uid := range c.uids {
		out[i] = c.items[uid]
	}
	return out
}

// All iterates members in order.
func (c *Collection) All() iter.Seq2[model.UID, any] {
	return func(yield func(model.UID, any) bool) {
		for _, uid := range c.uids {
			if !yield(uid, c.items[uid]) {
				return
			}
		}
	}
}

// Named reports whether the collection carries local names.
func (c *Collection) Named() bool { return c.names != nil }

// NameFor returns the first name, in lexical order, bound to uid.
func (c *Collection) NameFor(uid model.UID) (string, bool) {
	names := c.aliases[uid]
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}

// AllNames returns every name bound to uid in lexical order.
func (c *Collection) AllNames(uid model.UID) []string {
	return slices.Clone(c.aliases[uid])
}

// UIDForName returns the UID a local name points at.
func (c *Collection) UIDForName(name string) (model.UID, bool) {
	uid, ok := c.names[name]
	return uid, ok
}

// GetByName resolves a local name to its member.
func (c *Collection) GetByName(name string) (any, bool) {
	uid, ok := c.names[name]
	if !ok {
		return nil, false
	}
	return c.Get(uid)
}

func collectionOperand(o Operand) (*Collection, error) {
	other, ok := o.(*Collection)
	if !ok || other == nil {
		return nil, retrieval.ErrHeterogeneousOperands
	}
	return other, nil
}

// Union returns the receiver's members followed by the members of o the
// receiver lacks. Names of both operands are merged; the receiver wins
// on conflicts.
func (c *Collection) Union(o Operand) (*Collection, error) {
	other, err := collectionOperand(o)
	if err != nil {
		return nil, err
	}

	out := c.derive(c.uids)
	for _, uid := range other.uids {
		if _, ok := out.items[uid]; ok {
			continue
		}
		out.uids = append(out.uids, uid)
		out.items[uid] = other.items[uid]
	}
	out.mergeNames(c, other, func(name string, uid model.UID) bool { return true }, true)
	return out, nil
}

// Intersection returns the common members in the receiver's order. Only
// name bindings present in both operands survive.
func (c *Collection) Intersection(o Operand) (*Collection, error) {
	other, err := collectionOperand(o)
	if err != nil {
		return nil, err
	}

	out := c.derive(slices.DeleteFunc(slices.Clone(c.uids), func(uid model.UID) bool {
		_, ok := other.items[uid]
		return !ok
	}))
	out.mergeNames(c, other, func(name string, uid model.UID) bool {
		theirs, ok := other.names[name]
		return ok && theirs == uid
	}, false)
	return out, nil
}

// Difference returns the receiver's members missing from o. Name bindings
// present in o are dropped.
func (c *Collection) Difference(o Operand) (*Collection, error) {
	other, err := collectionOperand(o)
	if err != nil {
		return nil, err
	}

	out := c.derive(slices.DeleteFunc(slices.Clone(c.uids), func(uid model.UID) bool {
		_, ok := other.items[uid]
		return ok
	}))
	out.mergeNames(c, other, func(name string, uid model.UID) bool {
		theirs, ok := other.names[name]
		return !ok || theirs != uid
	}, false)
	return out, nil
}

func (c *Collection) derive(uids []model.UID) *Collection {
	out := &Collection{
		uids:  slices.Clone(uids),
		items: make(map[model.UID]any, len(uids)),
	}
	for _, uid := range uids {
		out.items[uid] = c.items[uid]
	}
	return out
}

// mergeNames sets names built from a's bindings accepted by keep, plus b's
// bindings when addOther is set. Names are only kept when both operands
// carry them.
func (c *Collection) mergeNames(a, b *Collection, keep func(string, model.UID) bool, addOther bool) {
	if a.names == nil || b.names == nil {
		return
	}
	merged := make(map[string]model.UID)
	if addOther {
		maps.Copy(merged, b.names)
	}
	for name, uid := range a.names {
		if keep(name, uid) {
			merged[name] = uid
		}
	}
	c.setNames(merged)
}
