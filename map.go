package protomap

import (
	"fmt"
	"iter"
)

// Source is the read side of a map, which is all a prototype needs to provide.
// *Map implements Source; other read-only mappings (see package redis) may too.
type Source[K comparable, V any] interface {
	// Lookup returns the effective value for key
	Lookup(key K) (V, bool)

	// All yields every effective entry exactly once, in no particular order
	All() iter.Seq2[K, V]
}

// Entry is a key-value pair, as produced by CopyTo
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is like a map[K]V but prototypal in behaviour; local read misses causes the prototype
// to be tried, while writes and deletes are always local. A deleted key is recorded as a
// tombstone which hides the inherited value without touching the prototype.
//
// The zero value is an empty map without a prototype, ready to use.
// Map is not goroutine-safe. A prototype may be shared by any number of maps as long as it is
// not modified while they are being read.
type Map[K comparable, V any] struct {
	proto Source[K, V]  // never changes after construction
	m     map[K]slot[V] // local slots; nil until first write
}

// New returns an empty map without a prototype
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{}
}

// Inherit returns an empty map which falls back to proto for keys it does not define itself.
// proto is never modified through the returned map. A nil proto yields a root map.
func Inherit[K comparable, V any](proto Source[K, V]) *Map[K, V] {
	if m, ok := proto.(*Map[K, V]); ok && m == nil {
		proto = nil
	}
	return &Map[K, V]{proto: proto}
}

// FromMap returns a root map holding a copy of the entries of src.
// Later changes to src do not affect the returned map.
func FromMap[K comparable, V any](src map[K]V) (*Map[K, V], error) {
	m := &Map[K, V]{m: make(map[K]slot[V], len(src))}
	for k, v := range src {
		if isNil(v) {
			return nil, &KeyError[K]{Key: k, Err: ErrInvalidValue}
		}
		m.m[k] = present(v)
	}
	return m, nil
}

// NewScope returns a new map with m as its prototype
func (m *Map[K, V]) NewScope() *Map[K, V] {
	return &Map[K, V]{proto: m}
}

// Prototype returns the map's prototype, or nil for a root map
func (m *Map[K, V]) Prototype() Source[K, V] {
	return m.proto
}

// Lookup returns the effective value for key.
// It walks the prototype chain until it finds a value or a tombstone.
func (m *Map[K, V]) Lookup(key K) (V, bool) {
	for m != nil {
		if s, ok := m.m[key]; ok {
			return s.get()
		}
		next, ok := m.proto.(*Map[K, V])
		if !ok {
			if m.proto == nil {
				break
			}
			return m.proto.Lookup(key)
		}
		m = next
	}
	var zero V
	return zero, false
}

// Get returns the effective value for key, or a *KeyError wrapping ErrNotFound
func (m *Map[K, V]) Get(key K) (V, error) {
	v, ok := m.Lookup(key)
	if !ok {
		return v, &KeyError[K]{Key: key, Err: ErrNotFound}
	}
	return v, nil
}

// Has reports whether key has an effective value
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Lookup(key)
	return ok
}

// HasPair reports whether key has an effective value equal to value
func (m *Map[K, V]) HasPair(key K, value V) bool {
	v, ok := m.Lookup(key)
	return ok && valuesEqual(v, value)
}

// Set stores value for key in m, replacing any local value or tombstone.
// The prototype is not consulted. A nil value is rejected with ErrInvalidValue;
// use Del to make a key absent.
func (m *Map[K, V]) Set(key K, value V) error {
	if isNil(value) {
		return &KeyError[K]{Key: key, Err: ErrInvalidValue}
	}
	m.put(key, present(value))
	return nil
}

// Add is like Set but fails with ErrDuplicateKey when m already holds a local value or
// tombstone for key. Inherited values do not count; Add may override them.
func (m *Map[K, V]) Add(key K, value V) error {
	if isNil(value) {
		return &KeyError[K]{Key: key, Err: ErrInvalidValue}
	}
	if _, ok := m.m[key]; ok {
		return &KeyError[K]{Key: key, Err: ErrDuplicateKey}
	}
	m.put(key, present(value))
	return nil
}

// Del marks key as absent in m, hiding any inherited value.
// It does not check whether key was set to begin with and always returns true.
func (m *Map[K, V]) Del(key K) bool {
	m.put(key, tombstone[V]())
	return true
}

// DelPair is like Del but only takes effect when the effective value of key equals value.
// Returns true if key was deleted.
func (m *Map[K, V]) DelPair(key K, value V) bool {
	if !m.HasPair(key, value) {
		return false
	}
	return m.Del(key)
}

// Shadowed reports whether key is locally marked as deleted
func (m *Map[K, V]) Shadowed(key K) bool {
	s, ok := m.m[key]
	return ok && s.deleted
}

// Clear drops all local values and tombstones.
// Afterwards every key resolves through the prototype again.
func (m *Map[K, V]) Clear() {
	debugTrace("clear %d local slots", len(m.m))
	m.m = nil
}

// LocalLen returns the number of local slots, values and tombstones alike
func (m *Map[K, V]) LocalLen() int {
	return len(m.m)
}

// Len returns the number of effective entries.
// Inherited keys which are overridden or deleted locally are not counted, which means this
// walks the entire chain.
func (m *Map[K, V]) Len() int {
	n := 0
	for _, s := range m.m {
		if !s.deleted {
			n++
		}
	}
	if m.proto != nil {
		for k := range m.proto.All() {
			if _, ok := m.m[k]; !ok {
				n++
			}
		}
	}
	return n
}

// Own yields the values set directly on m, skipping tombstones and the prototype
func (m *Map[K, V]) Own() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, s := range m.m {
			if s.deleted {
				continue
			}
			if !yield(k, s.value) {
				return
			}
		}
	}
}

// All yields every effective entry once: first m's own values, then inherited values
// which are neither overridden nor deleted in m, nearest ancestor first.
// Order within each level is unspecified. Modifying m during iteration has undefined results.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for k, v := range m.Own() {
			if !yield(k, v) {
				return
			}
		}
		if m.proto == nil {
			return
		}
		for k, v := range m.proto.All() {
			if _, ok := m.m[k]; ok {
				continue // overridden or deleted here
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys yields the keys of All
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields the values of All
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// CopyTo writes all effective entries, in the order of All, into dst starting at offset.
// If they do not fit, nothing is written and an error wrapping ErrInsufficientCapacity is
// returned. Returns the number of entries written.
func (m *Map[K, V]) CopyTo(dst []Entry[K, V], offset int) (int, error) {
	if offset < 0 || offset > len(dst) {
		return 0, fmt.Errorf("%w: offset %d out of range [0, %d]",
			ErrInsufficientCapacity, offset, len(dst))
	}
	entries := m.entries()
	if avail := len(dst) - offset; len(entries) > avail {
		return 0, fmt.Errorf("%w: need %d entries, have room for %d",
			ErrInsufficientCapacity, len(entries), avail)
	}
	return copy(dst[offset:], entries), nil
}

// Snapshot returns a root map holding a copy of m's current effective entries.
// The snapshot is independent of m and its prototypes; both can serve as prototypes.
func (m *Map[K, V]) Snapshot() *Map[K, V] {
	s := &Map[K, V]{m: make(map[K]slot[V])}
	for k, v := range m.All() {
		s.m[k] = present(v)
	}
	return s
}

// Depth returns the number of ancestors of m. A prototype which is not a *Map counts as one.
func (m *Map[K, V]) Depth() int {
	depth := 0
	for p := m.proto; p != nil; depth++ {
		pm, ok := p.(*Map[K, V])
		if !ok {
			return depth + 1
		}
		if pm == nil {
			break
		}
		p = pm.proto
	}
	return depth
}

func (m *Map[K, V]) entries() []Entry[K, V] {
	var entries []Entry[K, V]
	for k, v := range m.All() {
		entries = append(entries, Entry[K, V]{k, v})
	}
	return entries
}

func (m *Map[K, V]) put(key K, s slot[V]) {
	if m.m == nil {
		m.m = make(map[K]slot[V])
	}
	debugTrace("put %v deleted=%v", key, s.deleted)
	m.m[key] = s
}
