package protomap

// slot is the local state of a key in a Map: either a value or a tombstone.
// A key without a slot is unresolved locally and falls through to the prototype.
type slot[V any] struct {
	value   V
	deleted bool // tombstone; value is the zero value
}

func present[V any](v V) slot[V] { return slot[V]{value: v} }
func tombstone[V any]() slot[V]  { return slot[V]{deleted: true} }

func (s slot[V]) get() (V, bool) {
	return s.value, !s.deleted
}
