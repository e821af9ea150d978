package worker

import (
	"context"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn

	mu      sync.Mutex
	batches []*MockBatch
	prepErr error
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	if m.prepErr != nil {
		return nil, m.prepErr
	}
	batch := &MockBatch{}
	m.mu.Lock()
	m.batches = append(m.batches, batch)
	m.mu.Unlock()
	return batch, nil
}

// Appended returns the total rows appended across all batches.
func (m *MockClickHouseConn) Appended() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, b := range m.batches {
		total += b.Rows()
	}
	return total
}

// SentBatches returns how many batches were sent.
func (m *MockClickHouseConn) SentBatches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sent := 0
	for _, b := range m.batches {
		if b.Sent() {
			sent++
		}
	}
	return sent
}

// MockBatch implements driver.Batch for testing
type MockBatch struct {
	driver.Batch

	mu      sync.Mutex
	rows    [][]interface{}
	sent    bool
	sendErr error
}

func (m *MockBatch) Append(v ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, v)
	return nil
}

func (m *MockBatch) Send() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = true
	return nil
}

func (m *MockBatch) Rows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *MockBatch) Sent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}
