package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Logical keys holding the serialized catalog, cart and order ledger.
const (
	KeyProducts = "aurora_products_v1"
	KeyCart     = "aurora_cart_v1"
	KeyOrders   = "aurora_orders_v1"
)

// Store is a key-addressed persistent text store with no transactions of its own.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Transactor is implemented by backends that can commit several writes as one unit.
// Writes made through the Store passed to fn become visible only if fn returns nil.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunInTx runs fn inside a backend transaction when s supports one. Otherwise fn runs
// directly against s and its writes land one by one in the order fn issues them.
func RunInTx(ctx context.Context, s Store, fn func(ctx context.Context, tx Store) error) error {
	if t, ok := s.(Transactor); ok {
		return t.InTx(ctx, fn)
	}
	return fn(ctx, s)
}

// Prefixed namespaces every key of the wrapped store.
func Prefixed(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixed{inner: s, prefix: prefix}
}

type prefixed struct {
	inner  Store
	prefix string
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

func (p *prefixed) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return RunInTx(ctx, p.inner, func(ctx context.Context, tx Store) error {
		return fn(ctx, &prefixed{inner: tx, prefix: p.prefix})
	})
}

func (p *prefixed) Ping(ctx context.Context) error {
	if pinger, ok := p.inner.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// staged buffers writes on top of a read-through store until they are flushed.
type staged struct {
	base    Store
	writes  map[string][]byte
	deletes map[string]bool
	order   []string
}

func newStaged(base Store) *staged {
	return &staged{base: base, writes: map[string][]byte{}, deletes: map[string]bool{}}
}

func (s *staged) Get(ctx context.Context, key string) ([]byte, error) {
	if s.deletes[key] {
		return nil, ErrNotFound
	}
	if v, ok := s.writes[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return s.base.Get(ctx, key)
}

func (s *staged) Set(_ context.Context, key string, value []byte) error {
	s.touch(key)
	delete(s.deletes, key)
	s.writes[key] = append([]byte(nil), value...)
	return nil
}

func (s *staged) Delete(_ context.Context, key string) error {
	s.touch(key)
	delete(s.writes, key)
	s.deletes[key] = true
	return nil
}

func (s *staged) touch(key string) {
	for _, k := range s.order {
		if k == key {
			return
		}
	}
	s.order = append(s.order, key)
}
