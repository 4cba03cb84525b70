package handler

import (
	"context"
	"math/rand"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	"github.com/Astemirdum/archive-delivery/pkg/kafka"
)

const (
	defaultBaseDelay = 100 * time.Millisecond
	defaultMaxDelay  = 30 * time.Second
	jitterFactor     = 0.3
)

type markPaid func(ctx context.Context, id int64, orderRef string) (model.Request, error)

// Consumer applies payment events from the payment bridge.
type Consumer struct {
	markPaidHandler markPaid
	log             *zap.Logger
	ready           chan bool

	baseDelay time.Duration
	maxDelay  time.Duration
}

type ConsumerOption func(*Consumer)

// WithRetryDelay bounds the exponential backoff between attempts at a failing event.
func WithRetryDelay(base, ceiling time.Duration) ConsumerOption {
	return func(c *Consumer) {
		if base > 0 {
			c.baseDelay = base
		}
		if ceiling >= c.baseDelay {
			c.maxDelay = ceiling
		}
	}
}

func NewConsumer(markPaid markPaid, log *zap.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		markPaidHandler: markPaid,
		log:             log.Named("consumer"),
		ready:           make(chan bool),
		baseDelay:       defaultBaseDelay,
		maxDelay:        defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ready is closed once the first session is set up.
func (consumer *Consumer) Ready() <-chan bool {
	return consumer.ready
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-consumer.ready:
	default:
		close(consumer.ready)
	}
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks messages strictly in order. A message that cannot be applied
// before the session ends stays unmarked and nothing after it is marked either, so
// the next session starts from it again.
func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			if !consumer.handle(session.Context(), message) {
				consumer.log.Warn("session ended before message was applied",
					zap.Int32("partition", message.Partition),
					zap.Int64("offset", message.Offset))
				return nil
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle reports whether the message is done with and may be committed. Coordinator
// failures are final and get logged; anything else is retried until ctx ends.
func (consumer *Consumer) handle(ctx context.Context, message *sarama.ConsumerMessage) bool {
	var ev kafka.PaymentEvent
	if err := kafka.Unmarshal(message.Value, &ev); err != nil {
		consumer.log.Error("unmarshal payment event", zap.Error(err))
		return true
	}
	if !ev.Paid || ev.ReproductionID <= 0 {
		return true
	}
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(consumer.backoff(attempt)):
			case <-ctx.Done():
				return false
			}
		}
		req, err := consumer.markPaidHandler(ctx, ev.ReproductionID, ev.OrderRef)
		if err == nil {
			consumer.log.Debug("payment applied",
				zap.Int64("reproduction", req.ID),
				zap.String("status", string(req.Status)),
				zap.Int("attempts", attempt+1),
				zap.Time("timestamp", message.Timestamp))
			return true
		}
		if errs.Typed(err) {
			consumer.log.Error("payment rejected",
				zap.Int64("reproduction", ev.ReproductionID),
				zap.String("orderRef", ev.OrderRef),
				zap.Error(err))
			return true
		}
		consumer.log.Warn("markPaid failed, retrying",
			zap.Int64("reproduction", ev.ReproductionID),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
}

// backoff doubles from baseDelay up to maxDelay and adds up to 30% jitter.
func (consumer *Consumer) backoff(attempt int) time.Duration {
	delay := consumer.maxDelay
	if shift := attempt - 1; shift < 30 {
		if d := consumer.baseDelay << shift; d > 0 && d < delay {
			delay = d
		}
	}
	jitter := rand.Float64() * float64(delay) * jitterFactor //nolint:gosec // jitter only
	return delay + time.Duration(jitter)
}
