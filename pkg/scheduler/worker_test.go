package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/credit-wallet-ledger/pkg/reconcile"
	"github.com/chris/credit-wallet-ledger/pkg/scheduler/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type checkerFunc func(ctx context.Context, orderCode int64) (reconcile.PollStatus, error)

func (f checkerFunc) CheckAndReconcile(ctx context.Context, orderCode int64) (reconcile.PollStatus, error) {
	return f(ctx, orderCode)
}

func answer(status reconcile.PollStatus, err error) Checker {
	return checkerFunc(func(context.Context, int64) (reconcile.PollStatus, error) { return status, err })
}

func newWorker(t *testing.T, checker Checker) (*Worker, *mocks.SQSAPI) {
	client := mocks.NewSQSAPI(t)
	return &Worker{
		Checker:     checker,
		Scheduler:   NewSQSScheduler(client, "q", 5*time.Second),
		Interval:    3 * time.Second,
		MaxAttempts: 40,
		Logger:      zap.NewNop(),
	}, client
}

func TestWorker_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending Is Rescheduled", func(t *testing.T) {
		w, client := newWorker(t, answer(reconcile.PollPending, nil))
		client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			return *in.MessageBody == `{"order_code":42,"attempt":3}` && in.DelaySeconds == 3
		})).Return(&sqs.SendMessageOutput{}, nil).Once()

		assert.NoError(t, w.Process(ctx, StatusCheck{OrderCode: 42, Attempt: 2}))
	})

	t.Run("Check Error Counts As Attempt", func(t *testing.T) {
		w, client := newWorker(t, answer(reconcile.PollPending, errors.New("payos unavailable")))
		client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			return *in.MessageBody == `{"order_code":42,"attempt":2}`
		})).Return(&sqs.SendMessageOutput{}, nil).Once()

		assert.NoError(t, w.Process(ctx, StatusCheck{OrderCode: 42, Attempt: 1}))
	})

	for _, status := range []reconcile.PollStatus{reconcile.PollPaid, reconcile.PollCancelled, reconcile.PollExpired} {
		t.Run(fmt.Sprintf("Final %s", status), func(t *testing.T) {
			w, _ := newWorker(t, answer(status, nil))

			assert.NoError(t, w.Process(ctx, StatusCheck{OrderCode: 42, Attempt: 5}))
		})
	}

	t.Run("Unknown Order Is Dropped", func(t *testing.T) {
		w, _ := newWorker(t, answer("", fmt.Errorf("order code 42: %w", reconcile.ErrUnknownOrder)))

		assert.NoError(t, w.Process(ctx, StatusCheck{OrderCode: 42, Attempt: 1}))
	})

	t.Run("Ceiling Reached", func(t *testing.T) {
		w, _ := newWorker(t, answer(reconcile.PollPending, nil))

		assert.NoError(t, w.Process(ctx, StatusCheck{OrderCode: 42, Attempt: 40}))
	})

	t.Run("Reschedule Failure Is Returned", func(t *testing.T) {
		w, client := newWorker(t, answer(reconcile.PollPending, nil))
		client.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

		assert.Error(t, w.Process(ctx, StatusCheck{OrderCode: 42, Attempt: 1}))
	})
}
