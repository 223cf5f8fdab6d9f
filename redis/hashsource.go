package redis

import (
	"iter"
	"sync"

	"github.com/mediocregopher/radix/v3"
	"github.com/rsms/protomap"
)

// HashSource exposes the fields of a redis hash as a read-only protomap.Source, which lets
// a hash act as the root prototype of a chain of maps:
//
//	defaults := redis.NewHashSource(r, "config:defaults")
//	m := protomap.Inherit[string, string](defaults)
//
// Every Lookup is a HGET and every iteration of All is a HGETALL; nothing is cached.
// Transport errors make lookups report "not found". The first such error is kept and
// returned by Err.
type HashSource struct {
	r   *Redis
	key string

	mu  sync.Mutex // protects err
	err error
}

var _ protomap.Source[string, string] = (*HashSource)(nil)

func NewHashSource(r *Redis, key string) *HashSource {
	return &HashSource{r: r, key: key}
}

// Key returns the redis key of the hash
func (s *HashSource) Key() string { return s.key }

func (s *HashSource) Lookup(field string) (string, bool) {
	var value string
	mn := radix.MaybeNil{Rcv: &value}
	if err := s.r.doRead(radix.Cmd(&mn, "HGET", s.key, field)); err != nil {
		s.setErr("HGET", err)
		return "", false
	}
	if mn.Nil {
		return "", false
	}
	return value, true
}

func (s *HashSource) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		var fields map[string]string
		if err := s.r.doRead(radix.Cmd(&fields, "HGETALL", s.key)); err != nil {
			s.setErr("HGETALL", err)
			return
		}
		for k, v := range fields {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Err returns the first error encountered while talking to redis
func (s *HashSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *HashSource) setErr(cmd string, err error) {
	if s.r.Logger != nil {
		s.r.Logger.Warn("%s %q: %v", cmd, s.key, err)
	}
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}
