package mailroom

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureQueue struct {
	bodies  []string
	sendErr error
}

func (q *captureQueue) Send(_ context.Context, body string) error {
	if q.sendErr != nil {
		return q.sendErr
	}
	q.bodies = append(q.bodies, body)
	return nil
}

func (q *captureQueue) Receive(context.Context, int, int) ([]queueMessage, error) {
	return nil, nil
}

func (q *captureQueue) Delete(context.Context, string) error { return nil }

func TestPublisherEncodesPayload(t *testing.T) {
	queue := &captureQueue{}
	pub := NewPublisher(queue, nil)

	jobID, err := pub.EnqueueInbound(context.Background(), "job-7", InboundMessage{ID: "msg-7", From: "pat@example.com", Subject: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "job-7", jobID)
	require.Len(t, queue.bodies, 1)

	var payload queuePayload
	require.NoError(t, json.Unmarshal([]byte(queue.bodies[0]), &payload))
	assert.Equal(t, "job-7", payload.ID)
	assert.Equal(t, jobTypeInboundEmail, payload.Kind)
	assert.Equal(t, "msg-7", payload.Message.ID)
	assert.True(t, payload.TrackStatus)
}

func TestPublisherGeneratesJobID(t *testing.T) {
	queue := &captureQueue{}
	pub := NewPublisher(queue, nil)

	jobID, err := pub.EnqueueInbound(context.Background(), "", InboundMessage{ID: "m"}, WithoutJobTracking())
	require.NoError(t, err)
	assert.NotEmpty(t, jobID)

	var payload queuePayload
	require.NoError(t, json.Unmarshal([]byte(queue.bodies[0]), &payload))
	assert.Equal(t, jobID, payload.ID)
	assert.False(t, payload.TrackStatus)
}

func TestPublisherWrapsSendErrors(t *testing.T) {
	pub := NewPublisher(&captureQueue{sendErr: errors.New("queue down")}, nil)

	_, err := pub.EnqueueInbound(context.Background(), "", InboundMessage{ID: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enqueue")
}
