package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fintrack/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	hasDeadline   bool
	err           error
	closed        bool
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	_, c.hasDeadline = ctx.Deadline()
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestAMQPPublisher_PublishBudgetExceeded(t *testing.T) {
	ch := &fakeChannel{}
	p := newAMQPPublisher(ch, "fintrack", "budget.exceeded", logger.Discard())

	evt := &BudgetExceededEvent{
		UserID: "u1", BudgetID: "b1", Category: "Food", Limit: 100, Spent: 120,
		MessageID: "mock_1", Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishBudgetExceeded(context.Background(), evt))

	assert.Equal(t, "fintrack", ch.exchange)
	assert.Equal(t, "budget.exceeded", ch.key)
	assert.True(t, ch.hasDeadline)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "mock_1", ch.msg.MessageId)

	var back BudgetExceededEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &back))
	assert.Equal(t, *evt, back)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newAMQPPublisher(ch, "fintrack", "budget.exceeded", logger.Discard())

	err := p.PublishBudgetExceeded(context.Background(), &BudgetExceededEvent{UserID: "u1"})
	assert.ErrorContains(t, err, "channel closed")
}
