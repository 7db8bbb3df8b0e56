// File: internal/modeling/model.go
package modeling

import (
	"sort"

	"github.com/xkilldash9x/modelquery/api/schemas"
)

// TaintModel is the concrete Model implementation: the set of annotation
// pairs attached to one callable, keyed by the pair's canonical identity.
// Join over two TaintModels is set union, which makes it associative,
// commutative, and idempotent.
type TaintModel struct {
	callable schemas.Callable
	pairs    map[string]schemas.AnnotationPair
}

// NewTaintModel builds a model from the given pairs. Duplicate pairs
// collapse onto their canonical key.
func NewTaintModel(callable schemas.Callable, pairs []schemas.AnnotationPair) *TaintModel {
	m := &TaintModel{
		callable: callable,
		pairs:    make(map[string]schemas.AnnotationPair, len(pairs)),
	}
	for _, p := range pairs {
		m.pairs[p.Key()] = p
	}
	return m
}

// Callable returns the callable this model describes.
func (m *TaintModel) Callable() schemas.Callable { return m.callable }

// Join returns the union of the two models' pairs. Neither operand is
// modified. Joining with nil returns the receiver.
func (m *TaintModel) Join(other schemas.Model) schemas.Model {
	if other == nil {
		return m
	}
	merged := &TaintModel{
		callable: m.callable,
		pairs:    make(map[string]schemas.AnnotationPair, len(m.pairs)),
	}
	for k, p := range m.pairs {
		merged.pairs[k] = p
	}
	for _, p := range other.Pairs() {
		merged.pairs[p.Key()] = p
	}
	return merged
}

// Pairs returns the annotation pairs sorted by canonical key, so two equal
// models always render identically.
func (m *TaintModel) Pairs() []schemas.AnnotationPair {
	out := make([]schemas.AnnotationPair, 0, len(m.pairs))
	for _, p := range m.pairs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Len returns the number of distinct annotation pairs.
func (m *TaintModel) Len() int { return len(m.pairs) }

// Equal reports structural equality; it makes models comparable with
// go-cmp in tests.
func (m *TaintModel) Equal(other *TaintModel) bool {
	if other == nil || m.callable != other.callable || len(m.pairs) != len(other.pairs) {
		return false
	}
	for k := range m.pairs {
		if _, ok := other.pairs[k]; !ok {
			return false
		}
	}
	return true
}

// ResultMap maps callables to their models. Keys are unique; two models
// for the same callable never coexist, they are joined.
type ResultMap map[schemas.Callable]schemas.Model

// Clone returns a shallow copy. Models are immutable under Join, so
// sharing them between maps is safe.
func (r ResultMap) Clone() ResultMap {
	out := make(ResultMap, len(r))
	for c, m := range r {
		out[c] = m
	}
	return out
}

// Add stores a model for the callable, joining with any existing entry.
func (r ResultMap) Add(c schemas.Callable, m schemas.Model) {
	if existing, ok := r[c]; ok {
		r[c] = existing.Join(m)
		return
	}
	r[c] = m
}

// Merge folds src into dst: union of keys, join on collision, keys present
// on only one side kept as-is. dst is modified and returned; src is not.
// Because model join is associative, commutative and idempotent, the result
// of repeated merges is independent of chunk boundaries and merge order.
func Merge(dst, src ResultMap) ResultMap {
	if dst == nil {
		dst = make(ResultMap, len(src))
	}
	for c, m := range src {
		dst.Add(c, m)
	}
	return dst
}
