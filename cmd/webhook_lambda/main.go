package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/credit-wallet-ledger/pkg/bootstrap"
	"github.com/chris/credit-wallet-ledger/pkg/reconcile"
	"go.uber.org/zap"
)

// WebhookHandler is the part of the reconciliation engine the lambda needs.
type WebhookHandler interface {
	HandleWebhook(ctx context.Context, body []byte) (reconcile.Outcome, error)
}

type ack struct {
	Success bool              `json:"success"`
	Outcome reconcile.Outcome `json:"outcome,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func handle(ctx context.Context, h WebhookHandler, logger *zap.Logger, req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return respond(http.StatusBadRequest, ack{Error: "invalid body"})
		}
		body = decoded
	}

	outcome, err := h.HandleWebhook(ctx, body)
	switch {
	case errors.Is(err, reconcile.ErrInvalidSignature):
		return respond(http.StatusUnauthorized, ack{Error: "invalid signature"})
	case err != nil:
		logger.Error("failed to apply webhook", zap.Error(err))
		return respond(http.StatusInternalServerError, ack{Error: "internal error"})
	}
	return respond(http.StatusOK, ack{Success: true, Outcome: outcome})
}

func respond(status int, body ack) events.APIGatewayV2HTTPResponse {
	raw, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(raw),
	}
}

func main() {
	app, err := bootstrap.New(context.Background())
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer app.Close()

	// Receives payOS webhooks through an API Gateway HTTP API.
	lambda.Start(func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, app.Engine, app.Logger, req), nil
	})
}
