package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Memory is an in-process Store. Transactions are serialized.
type Memory struct {
	mu       sync.RWMutex
	writer   sync.Mutex
	accounts map[solana.PublicKey][]byte
	closed   bool
}

func NewMemory() *Memory {
	return &Memory{accounts: make(map[solana.PublicKey][]byte)}
}

func (m *Memory) Get(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	data, ok := m.accounts[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Update(ctx context.Context, fn func(tx Tx) error) error {
	m.writer.Lock()
	defer m.writer.Unlock()

	tx := &memoryTx{base: m, staged: make(map[solana.PublicKey][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for k, v := range tx.staged {
		m.accounts[k] = v
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type memoryTx struct {
	base   *Memory
	staged map[solana.PublicKey][]byte
}

func (tx *memoryTx) Get(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	if data, ok := tx.staged[key]; ok {
		return append([]byte(nil), data...), nil
	}
	return tx.base.Get(ctx, key)
}

func (tx *memoryTx) Put(ctx context.Context, key solana.PublicKey, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.staged[key] = append([]byte(nil), data...)
	return nil
}
