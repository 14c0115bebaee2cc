package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

var _ Publisher = NopPublisher{}
var _ Publisher = (*AMQPPublisher)(nil)

func TestReservationPayload(t *testing.T) {
	r := &domain.Reservation{
		ID:     7,
		BookID: 3,
		UserID: 11,
		Status: domain.StatusPending,
	}

	payload := reservationPayload(r)
	assert.Equal(t, uint(7), payload["reservation_id"])
	assert.Equal(t, uint(3), payload["book_id"])
	assert.Equal(t, uint(11), payload["user_id"])
	assert.Equal(t, "pending", payload["status"])
	assert.NotContains(t, payload, "pickup_deadline")

	deadline := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.Status = domain.StatusConfirmed
	r.PickupDeadline = &deadline

	payload = reservationPayload(r)
	assert.Equal(t, "confirmed", payload["status"])
	assert.Equal(t, "2025-06-01T12:00:00Z", payload["pickup_deadline"])
}

func TestEventEnvelopeShape(t *testing.T) {
	event := Event{
		EventID:      "id-1",
		EventType:    EventTypeBookAdded,
		EventVersion: "1.0.0",
		Timestamp:    "2025-06-01T12:00:00Z",
		Payload:      map[string]interface{}{"book_id": 1},
	}

	body, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "book.added", decoded["event_type"])
	assert.Equal(t, "1.0.0", decoded["event_version"])
	assert.Equal(t, float64(1), decoded["payload"].(map[string]interface{})["book_id"])
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	ctx := context.Background()

	assert.NoError(t, p.BookAdded(ctx, &domain.Book{}))
	assert.NoError(t, p.BookWrittenOff(ctx, 1))
	assert.NoError(t, p.ReservationCreated(ctx, &domain.Reservation{}))
	assert.NoError(t, p.ReservationTransitioned(ctx, &domain.Reservation{}))
	assert.True(t, p.IsHealthy())
	assert.NoError(t, p.Close())
}
