package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	cb "github.com/Astemirdum/archive-delivery/pkg/circuit_breaker"
	"github.com/Astemirdum/archive-delivery/pkg/kafka"
)

// Enqueuer publishes mail and print jobs to kafka. It satisfies service.Notifier and
// service.Printer.
type Enqueuer struct {
	producer sarama.SyncProducer
	cb       cb.CircuitBreaker
	now      func() time.Time
	log      *zap.Logger
}

func NewEnqueuer(producer sarama.SyncProducer, log *zap.Logger) *Enqueuer {
	log = log.Named("enqueuer")
	return &Enqueuer{
		producer: producer,
		cb: cb.NewCircuitBreaker(cb.Settings{
			Window:    10,
			Threshold: 0.5,
			Cooldown:  30 * time.Second,
			Recovery:  2,
		}, cb.WithStateListener(func(from, to cb.State) {
			log.Warn("broker circuit", zap.Stringer("from", from), zap.Stringer("to", to))
		})),
		now: time.Now,
		log: log,
	}
}

func (q *Enqueuer) Enqueue(topic, key string, v any) error {
	data, err := kafka.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal")
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}
	return q.cb.Call(func() error {
		_, _, err := q.producer.SendMessage(msg)
		return err
	})
}

func (q *Enqueuer) Notify(_ context.Context, req model.Request) error {
	msg := kafka.MailMessage{
		ID:        uuid.NewString(),
		Kind:      string(req.Kind),
		RequestID: req.ID,
		Status:    string(req.Status),
		Name:      req.Name,
		Email:     req.Email,
		Timestamp: q.now(),
	}
	return q.Enqueue(kafka.MailTopic, strconv.FormatInt(req.ID, 10), msg)
}

func (q *Enqueuer) Print(_ context.Context, ref model.Ref, claim model.Claim, force bool) error {
	msg := kafka.PrintMessage{
		ID:        uuid.NewString(),
		Kind:      string(ref.Kind),
		RequestID: ref.ID,
		ClaimID:   claim.ID,
		HoldingID: claim.HoldingID,
		Signature: claim.Signature,
		Force:     force,
		Timestamp: q.now(),
	}
	return q.Enqueue(kafka.PrintTopic, strconv.FormatInt(claim.HoldingID, 10), msg)
}
