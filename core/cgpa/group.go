package cgpa

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderedMap is a map that remembers the insertion order of its keys.
// It marshals to a JSON object whose members follow that order.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Set adds or replaces the value of k. A replaced key keeps its position.
func (m *OrderedMap[K, V]) Set(k K, v V) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m *OrderedMap[K, V]) Len() int { return len(m.keys) }

// Each calls fn for every entry, in insertion order.
func (m *OrderedMap[K, V]) Each(fn func(k K, v V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

func (m *OrderedMap[K, V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(fmt.Sprint(k))
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Group partitions items by key, in order of first occurrence of each key.
// Items keep their relative order within a group.
func Group[K comparable, T any](items []T, key func(T) K) *OrderedMap[K, []T] {
	groups := NewOrderedMap[K, []T]()
	for _, item := range items {
		k := key(item)
		group, _ := groups.Get(k)
		groups.Set(k, append(group, item))
	}
	return groups
}

// MapValues returns a new OrderedMap with fn applied to every value of m, keeping the key order.
func MapValues[K comparable, V, W any](m *OrderedMap[K, V], fn func(V) W) *OrderedMap[K, W] {
	out := NewOrderedMap[K, W]()
	m.Each(func(k K, v V) {
		out.Set(k, fn(v))
	})
	return out
}
