package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id          string
	workspaceID int32
	messages    [][]byte
	mu          sync.Mutex
	closed      bool
}

func newMockClient(id string, workspaceID int32) *mockClient {
	return &mockClient{id: id, workspaceID: workspaceID}
}

func (m *mockClient) ID() string         { return m.id }
func (m *mockClient) WorkspaceID() int32 { return m.workspaceID }

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockClient) getMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	client1 := newMockClient("client-1", 1)
	client2 := newMockClient("client-2", 1)
	client3 := newMockClient("client-3", 2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(1))
	assert.Equal(t, 1, hub.ClientCount(2))
	assert.Equal(t, 3, hub.TotalClientCount())
	assert.Equal(t, []int32{1, 2}, hub.ConnectedWorkspaces())

	hub.Unregister(client1)
	hub.Unregister(client3)
	hub.Unregister(client3)

	assert.Equal(t, 1, hub.ClientCount(1))
	assert.Equal(t, 0, hub.ClientCount(2))
	assert.Equal(t, []int32{1}, hub.ConnectedWorkspaces())
}

func TestHub_BroadcastIsolatesWorkspaces(t *testing.T) {
	hub := NewHub()
	mine := newMockClient("mine", 1)
	other := newMockClient("other", 2)
	hub.Register(mine)
	hub.Register(other)

	hub.Broadcast(1, LoanCreated(map[string]interface{}{"id": 7}))

	require.Eventually(t, func() bool { return len(mine.getMessages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, other.getMessages())

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(mine.getMessages()[0], &decoded))
	assert.Equal(t, "loan.created", decoded["type"])
	assert.Equal(t, "loan", decoded["entity"])
}

func TestHub_BroadcastToEmptyWorkspace(t *testing.T) {
	hub := NewHub()

	assert.NotPanics(t, func() {
		hub.Broadcast(99, LoanDeleted(map[string]interface{}{"id": 1}))
	})
}

func TestHub_BroadcastSkipsClosedClient(t *testing.T) {
	hub := NewHub()
	closed := newMockClient("closed", 1)
	open := newMockClient("open", 1)
	closed.Close()
	hub.Register(closed)
	hub.Register(open)

	hub.Broadcast(1, TransactionCreated(map[string]interface{}{"id": 3}))

	require.Eventually(t, func() bool { return len(open.getMessages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, closed.getMessages())
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub()
	a := newMockClient("a", 1)
	b := newMockClient("b", 2)
	hub.Register(a)
	hub.Register(b)

	hub.CloseAll()

	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
	assert.Equal(t, 0, hub.TotalClientCount())
	assert.Empty(t, hub.ConnectedWorkspaces())
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newMockClient(fmt.Sprintf("client-%d", i), int32(i%3))
			hub.Register(c)
			hub.Broadcast(c.WorkspaceID(), LoanUpdated(map[string]interface{}{"id": i}))
			hub.Unregister(c)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.TotalClientCount())
}
