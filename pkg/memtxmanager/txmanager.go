package memtxmanager

import (
	"context"
	"sync"
)

// TransactionManager сериализует критические секции для in-memory хранилища.
// БД-транзакций здесь нет: все Do-варианты эквивалентны и выполняют fn
// под общим мьютексом, так что "проверить конфликты и вставить" не гонится
// с таким же блоком в соседнем запросе.
type TransactionManager struct {
	mu sync.Mutex
}

// NewTransactionManager создает новый менеджер
func NewTransactionManager() *TransactionManager {
	return &TransactionManager{}
}

// Do выполняет fn под общим мьютексом
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// DoSerializable для in-memory хранилища совпадает с Do
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// DoReadOnly для in-memory хранилища совпадает с Do
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}
