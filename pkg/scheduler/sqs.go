package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// maxDelay is the largest DelaySeconds SQS accepts.
const maxDelay = 15 * time.Minute

// SQSAPI is the subset of the SQS client used by the scheduler.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSScheduler implements the Scheduler interface using AWS SQS delayed messages.
type SQSScheduler struct {
	Client     SQSAPI
	QueueURL   string
	FirstDelay time.Duration
}

// NewSQSScheduler creates a new SQSScheduler. firstDelay is used by Follow for the first check.
func NewSQSScheduler(client SQSAPI, queueURL string, firstDelay time.Duration) *SQSScheduler {
	return &SQSScheduler{
		Client:     client,
		QueueURL:   queueURL,
		FirstDelay: firstDelay,
	}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)

// ScheduleStatusCheck sends the check to an SQS queue, delivered after delay.
func (s *SQSScheduler) ScheduleStatusCheck(ctx context.Context, check StatusCheck, delay time.Duration) error {
	body, err := json.Marshal(check)
	if err != nil {
		return fmt.Errorf("failed to marshal status check for SQS: %w", err)
	}

	if delay > maxDelay {
		delay = maxDelay
	}
	if delay < 0 {
		delay = 0
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(s.QueueURL),
		MessageBody:  aws.String(string(body)),
		DelaySeconds: int32(delay / time.Second),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}

// Follow schedules the first status check of a newly created order.
func (s *SQSScheduler) Follow(ctx context.Context, orderCode int64) error {
	return s.ScheduleStatusCheck(ctx, StatusCheck{OrderCode: orderCode, Attempt: 1}, s.FirstDelay)
}

// ParseStatusCheck decodes a message body written by ScheduleStatusCheck.
func ParseStatusCheck(body string) (StatusCheck, error) {
	var check StatusCheck
	if err := json.Unmarshal([]byte(body), &check); err != nil {
		return StatusCheck{}, fmt.Errorf("failed to unmarshal status check: %w", err)
	}
	if check.OrderCode == 0 {
		return StatusCheck{}, errors.New("status check without order code")
	}
	return check, nil
}
