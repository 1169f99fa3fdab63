package websocket

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1", 1)
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(1, LoanCreated(map[string]interface{}{"id": float64(42)}))

	assert.Eventually(t, func() bool { return len(client.getMessages()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestPublisherFunc(t *testing.T) {
	var gotWorkspace int32
	var gotType string
	publisher := PublisherFunc(func(workspaceID int32, event Event) {
		gotWorkspace = workspaceID
		gotType = event.Type
	})

	publisher.Publish(7, LoanDeleted(map[string]interface{}{"id": float64(3)}))

	assert.Equal(t, int32(7), gotWorkspace)
	assert.Equal(t, "loan.deleted", gotType)
}

func TestPublisherFunc_Nil(t *testing.T) {
	var publisher PublisherFunc

	assert.NotPanics(t, func() {
		publisher.Publish(1, LoanCreated(nil))
	})
}

func TestTracedPublisher_ForwardsAndLogs(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1", 5)
	hub.Register(client)

	var buf bytes.Buffer
	publisher := NewTracedPublisher(hub, hub)
	publisher.logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	publisher.Publish(5, LoanUpdated(map[string]interface{}{"id": float64(9)}))

	assert.Eventually(t, func() bool { return len(client.getMessages()) == 1 }, time.Second, 5*time.Millisecond)
	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), `"type":"loan.updated"`)
	assert.Contains(t, buf.String(), `"workspace_id":5`)
	assert.Contains(t, buf.String(), `"recipients":1`)
}

func TestTracedPublisher_WithoutHub(t *testing.T) {
	var forwarded int
	var buf bytes.Buffer
	publisher := NewTracedPublisher(PublisherFunc(func(int32, Event) { forwarded++ }), nil)
	publisher.logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	publisher.Publish(2, LoanCreated(nil))

	assert.Equal(t, 1, forwarded)
	assert.NotContains(t, buf.String(), "recipients")
}
