package httpcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is a size bounded in-process cache.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory keeps at most size entries for ttl each. A zero ttl never expires.
func NewMemory(size int, ttl time.Duration) Memory {
	return Memory{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	body, ok := m.lru.Get(key)
	return body, ok, nil
}

func (m Memory) Set(_ context.Context, key string, body []byte) error {
	m.lru.Add(key, body)
	return nil
}

func (m Memory) Len() int {
	return m.lru.Len()
}
