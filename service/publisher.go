package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"fintrack/config"
	"fintrack/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BudgetExceededEvent 预算超支事件
type BudgetExceededEvent struct {
	UserID    string    `json:"user_id"`
	BudgetID  string    `json:"budget_id"`
	Category  string    `json:"category"`
	Limit     float64   `json:"limit"`
	Spent     float64   `json:"spent"`
	MessageID string    `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ToJSON 序列化事件
func (e *BudgetExceededEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// amqpChannel 发布所需的通道能力
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher 将预算事件发布到 RabbitMQ
type AMQPPublisher struct {
	conn       *amqp.Connection
	channel    amqpChannel
	exchange   string
	routingKey string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewAMQPPublisher 连接 RabbitMQ 并声明 topic 交换机
func NewAMQPPublisher(cfg config.AMQPConfig, log *slog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newAMQPPublisher(ch, cfg.Exchange, cfg.RoutingKey, log)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch amqpChannel, exchange, routingKey string, log *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		timeout:    5 * time.Second,
		logger:     logger.WithComponent(log, logger.ComponentAMQP),
	}
}

// PublishBudgetExceeded 发布持久化的 JSON 事件
func (p *AMQPPublisher) PublishBudgetExceeded(ctx context.Context, evt *BudgetExceededEvent) error {
	body, err := evt.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    evt.MessageID,
			Timestamp:    evt.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.InfoContext(ctx, "published budget exceeded event",
		logger.FieldUserID, evt.UserID,
		"category", evt.Category,
		"exchange", p.exchange,
		"routing_key", p.routingKey)
	return nil
}

// Close 关闭通道与连接
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
