package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

const (
	MailTopic    = "delivery.mail"
	PrintTopic   = "delivery.print"
	PaymentTopic = "delivery.payment"

	DeliveryConsumerGroup = "delivery"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = 3

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Return.Errors = true

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume joins the group until ctx is done or the group is closed.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topics ...string) error {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return errors.Wrap(err, "group.Consume")
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// MailMessage asks the mailer to send the template for a request in its current state.
type MailMessage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	RequestID int64     `json:"requestId"`
	Status    string    `json:"status"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// PrintMessage is one print job per claim.
type PrintMessage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	RequestID int64     `json:"requestId"`
	ClaimID   int64     `json:"claimId"`
	HoldingID int64     `json:"holdingId"`
	Signature string    `json:"signature"`
	Force     bool      `json:"force"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentEvent is published by the payment provider bridge.
type PaymentEvent struct {
	ReproductionID int64     `json:"reproductionId"`
	OrderRef       string    `json:"orderRef"`
	Paid           bool      `json:"paid"`
	Timestamp      time.Time `json:"timestamp"`
}
