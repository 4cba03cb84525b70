package handler_test

import (
	"context"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/handler"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	cb "github.com/Astemirdum/archive-delivery/pkg/circuit_breaker"
	"github.com/Astemirdum/archive-delivery/pkg/kafka"
)

func TestEnqueuer_Notify(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var msg kafka.MailMessage
		if err := kafka.Unmarshal(val, &msg); err != nil {
			return err
		}
		if msg.RequestID != 7 || msg.Status != string(model.StatusPending) || msg.Email != "jo@example.org" {
			return errors.Errorf("unexpected mail %+v", msg)
		}
		if msg.ID == "" {
			return errors.New("message id is empty")
		}
		return nil
	})
	q := handler.NewEnqueuer(producer, zap.NewNop())

	err := q.Notify(context.Background(), model.Request{
		ID: 7, Kind: model.KindReservation, Status: model.StatusPending, Email: "jo@example.org",
	})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestEnqueuer_PrintOpensBreaker(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	const failures = 5
	for i := 0; i < failures; i++ {
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	}
	q := handler.NewEnqueuer(producer, zap.NewNop())
	ref := model.Ref{Kind: model.KindReproduction, ID: 4}
	claim := model.Claim{ID: 1, HoldingID: 9, Signature: "ARCH-9"}

	for i := 0; i < failures; i++ {
		require.ErrorIs(t, q.Print(context.Background(), ref, claim, false), sarama.ErrOutOfBrokers)
	}
	require.ErrorIs(t, q.Print(context.Background(), ref, claim, false), cb.ErrOpenCB)
	require.NoError(t, producer.Close())
}
