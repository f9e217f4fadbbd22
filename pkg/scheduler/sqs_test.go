package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/credit-wallet-ledger/pkg/scheduler/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScheduleStatusCheck(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewSQSAPI(t)
		mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			return *in.QueueUrl == "https://sqs.local/checks" &&
				*in.MessageBody == `{"order_code":42,"attempt":2}` &&
				in.DelaySeconds == 3
		})).Return(&sqs.SendMessageOutput{}, nil)

		s := NewSQSScheduler(mockClient, "https://sqs.local/checks", 5*time.Second)
		err := s.ScheduleStatusCheck(context.Background(), StatusCheck{OrderCode: 42, Attempt: 2}, 3*time.Second)
		assert.NoError(t, err)
	})

	t.Run("Caps Delay", func(t *testing.T) {
		mockClient := mocks.NewSQSAPI(t)
		mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			return in.DelaySeconds == 900
		})).Return(&sqs.SendMessageOutput{}, nil)

		s := NewSQSScheduler(mockClient, "q", 0)
		assert.NoError(t, s.ScheduleStatusCheck(context.Background(), StatusCheck{OrderCode: 1}, time.Hour))
	})

	t.Run("Send Fails", func(t *testing.T) {
		mockClient := mocks.NewSQSAPI(t)
		mockClient.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		s := NewSQSScheduler(mockClient, "q", 0)
		err := s.ScheduleStatusCheck(context.Background(), StatusCheck{OrderCode: 1}, 0)
		assert.ErrorContains(t, err, "failed to send message to SQS")
	})
}

func TestFollow(t *testing.T) {
	mockClient := mocks.NewSQSAPI(t)
	mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		return *in.MessageBody == `{"order_code":7,"attempt":1}` && in.DelaySeconds == 5
	})).Return(&sqs.SendMessageOutput{}, nil)

	s := NewSQSScheduler(mockClient, "q", 5*time.Second)
	assert.NoError(t, s.Follow(context.Background(), 7))
}

func TestParseStatusCheck(t *testing.T) {
	check, err := ParseStatusCheck(`{"order_code":42,"attempt":3}`)
	require.NoError(t, err)
	assert.Equal(t, StatusCheck{OrderCode: 42, Attempt: 3}, check)

	_, err = ParseStatusCheck(`{"attempt":3}`)
	assert.Error(t, err)

	_, err = ParseStatusCheck(`nope`)
	assert.Error(t, err)
}
