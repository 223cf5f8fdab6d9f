package protomap

import (
	"fmt"
	"iter"
	"sort"

	"github.com/rsms/go-json"
)

// Repr formats a human-readable representation of m and its prototype chain.
// The result is a JSON array with one object per level, nearest first, listing the values
// and tombstones held by that level. A prototype which is not a *Map is listed with its
// effective entries and ends the chain. Keys are sorted by their string form.
func Repr[K comparable, V any](m *Map[K, V]) ([]byte, error) {
	var b json.Builder
	b.Indent = "  "
	b.StartArray()
	var src Source[K, V] = m
	for src != nil {
		pm, ok := src.(*Map[K, V])
		if ok && pm == nil {
			break
		}
		b.StartObject()
		if !ok {
			b.Key("source")
			b.Str(fmt.Sprintf("%T", src))
			b.Key("entries")
			reprEntries(&b, src.All())
			b.EndObject()
			break
		}
		b.Key("own")
		reprEntries(&b, pm.Own())
		b.Key("deleted")
		b.StartArray()
		for _, k := range sortedKeys(pm.deletedKeys()) {
			b.Str(k)
		}
		b.EndArray()
		b.EndObject()
		src = pm.proto
	}
	b.EndArray()
	if b.Err != nil {
		return nil, &ReprError{b.Err}
	}
	return b.Bytes(), nil
}

func reprEntries[K comparable, V any](b *json.Builder, entries iter.Seq2[K, V]) {
	values := make(map[string]string)
	for k, v := range entries {
		values[fmt.Sprint(k)] = fmt.Sprint(v)
	}
	b.StartObject()
	for _, k := range sortedKeys(values) {
		b.Key(k)
		b.Str(values[k])
	}
	b.EndObject()
}

func (m *Map[K, V]) deletedKeys() map[string]string {
	keys := make(map[string]string)
	for k, s := range m.m {
		if s.deleted {
			keys[fmt.Sprint(k)] = ""
		}
	}
	return keys
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type ReprError struct {
	Underlying error
}

func (e *ReprError) Unwrap() error { return e.Underlying }
func (e *ReprError) Error() string { return "repr error: " + e.Underlying.Error() }
