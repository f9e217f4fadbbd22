package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/credit-wallet-ledger/pkg/bootstrap"
	"github.com/chris/credit-wallet-ledger/pkg/scheduler"
	"go.uber.org/zap"
)

var (
	app    *bootstrap.App
	worker *scheduler.Worker
)

func init() {
	var err error
	app, err = bootstrap.New(context.Background())
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	sched, err := app.Scheduler(context.Background())
	if err != nil {
		app.Logger.Fatal("failed to create scheduler", zap.Error(err))
	}

	worker = &scheduler.Worker{
		Checker:     app.Engine,
		Scheduler:   sched,
		Interval:    app.Config.PollInterval,
		MaxAttempts: app.Config.PollMaxAttempts,
		Logger:      app.Logger.Named("poll"),
	}
}

// HandleRequest runs one payment status check per SQS message. Failed checks
// are reported back so only those messages are delivered again.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	defer app.Logger.Sync()

	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		check, err := scheduler.ParseStatusCheck(message.Body)
		if err != nil {
			// Redelivery cannot fix a malformed body.
			app.Logger.Error("dropping malformed status check",
				zap.String("message_id", message.MessageId), zap.Error(err))
			continue
		}

		if err := worker.Process(ctx, check); err != nil {
			app.Logger.Error("status check failed",
				zap.String("message_id", message.MessageId),
				zap.Int64("order_code", check.OrderCode),
				zap.Error(err))
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}
	return resp, nil
}

func main() {
	lambda.Start(HandleRequest)
}
