package records

import (
	"context"
	"fmt"
)

// Pending is a query that has not been run yet. It carries no data, the only way to get at
// the result is Load.
type Pending[T any] struct {
	query string
	load  func(ctx context.Context) (T, error)
}

// Loaded is the result of running a Pending query.
type Loaded[T any] struct {
	query string
	data  T
}

// Defer wraps a loader, query describes what it will fetch.
func Defer[T any](query string, load func(ctx context.Context) (T, error)) Pending[T] {
	return Pending[T]{query: query, load: load}
}

// Ready wraps data that is already available.
func Ready[T any](query string, data T) Loaded[T] {
	return Loaded[T]{query: query, data: data}
}

func (p Pending[T]) Query() string {
	return p.query
}

// Load runs the query. A Pending can be loaded any number of times, each call fetches again.
func (p Pending[T]) Load(ctx context.Context) (Loaded[T], error) {
	if p.load == nil {
		return Loaded[T]{}, fmt.Errorf("pending %q has no loader", p.query)
	}
	data, err := p.load(ctx)
	if err != nil {
		return Loaded[T]{}, err
	}
	return Loaded[T]{query: p.query, data: data}, nil
}

func (l Loaded[T]) Query() string {
	return l.query
}

func (l Loaded[T]) Data() T {
	return l.data
}
