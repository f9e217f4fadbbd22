package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/credit-wallet-ledger/pkg/bootstrap"
	"github.com/chris/credit-wallet-ledger/pkg/reconcile"
)

var app *bootstrap.App

func init() {
	var err error
	app, err = bootstrap.New(context.Background())
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
}

// HandleRequest is triggered by an EventBridge Schedule. It settles payment
// sessions that neither a webhook nor polling resolved.
func HandleRequest(ctx context.Context) (reconcile.SweepReport, error) {
	defer app.Logger.Sync()
	return app.Engine.ReconcileStale(ctx, app.Config.StaleSessionAge)
}

func main() {
	lambda.Start(HandleRequest)
}
