// Package kafka publica los eventos de ciclo de vida y catálogo en un tópico Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/pkg/config"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventPublisher = (*LogPublisher)(nil)
)

// Writer lo que Publisher usa de *kafka.Writer.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher serializa cada evento en JSON; la clave del mensaje es la entidad,
// así los eventos de una misma cuenta quedan en la misma partición y en orden.
type Publisher struct {
	w Writer
}

// NewPublisher crea el writer con balanceo por clave (Hash) sobre los brokers dados.
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	})
}

// NewPublisherWithWriter permite inyectar el writer (tests).
func NewPublisherWithWriter(w Writer) *Publisher {
	return &Publisher{w: w}
}

// Publish escribe el evento de forma síncrona.
func (p *Publisher) Publish(ctx context.Context, e ports.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("kafka: serializar %s: %w", e.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(e.EntityID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
		Time: e.OccurredAt,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar %s: %w", e.Type, err)
	}
	return nil
}

// Close cierra el writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}

// LogPublisher registra los eventos en el log cuando no hay brokers configurados.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e ports.Event) error {
	p.log.Debug().Str("event", e.Type).Str("entity_id", e.EntityID).Str("actor_id", e.ActorID).Msg("evento")
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Closer publicador con recursos que liberar al apagar.
type Closer interface {
	ports.EventPublisher
	Close() error
}

// New Kafka si hay brokers; si no, solo log.
func New(cfg config.KafkaConfig, log *logger.Logger) Closer {
	if !cfg.Enabled() {
		return NewLogPublisher(log)
	}
	return NewPublisher(cfg.Brokers, cfg.Topic)
}
