package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
)

// CreateSession stores a new payment session.
func (s *Store) CreateSession(ctx context.Context, session *models.PaymentSession) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	item, err := attributevalue.MarshalMap(session)
	if err != nil {
		return fmt.Errorf("failed to marshal payment session: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.SessionsTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(order_code)"),
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("order code %d: %w", session.OrderCode, storage.ErrSessionExists)
		}
		return fmt.Errorf("failed to create payment session in DynamoDB: %w", err)
	}

	return nil
}

// GetSession retrieves a payment session by order code.
func (s *Store) GetSession(ctx context.Context, orderCode int64) (*models.PaymentSession, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.SessionsTableName),
		Key:            map[string]types.AttributeValue{"order_code": numberAV(orderCode)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get payment session from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("order code %d: %w", orderCode, storage.ErrSessionNotFound)
	}

	var session models.PaymentSession
	if err := attributevalue.UnmarshalMap(result.Item, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment session: %w", err)
	}

	return &session, nil
}

// CloseSession moves a pending session to a terminal, unpaid status.
func (s *Store) CloseSession(ctx context.Context, orderCode int64, status models.SessionStatus) error {
	nowAV, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.SessionsTableName),
		Key:                 map[string]types.AttributeValue{"order_code": numberAV(orderCode)},
		UpdateExpression:    aws.String("SET #status = :status, updated_at = :now"),
		ConditionExpression: aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":  &types.AttributeValueMemberS{Value: string(status)},
			":pending": &types.AttributeValueMemberS{Value: string(models.SessionPending)},
			":now":     nowAV,
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			if len(condCheckFailed.Item) == 0 {
				return fmt.Errorf("order code %d: %w", orderCode, storage.ErrSessionNotFound)
			}
			return fmt.Errorf("order code %d: %w", orderCode, storage.ErrSessionClosed)
		}
		return fmt.Errorf("failed to close payment session: %w", err)
	}

	return nil
}

// ListStaleSessions returns sessions still PENDING after maxAge.
func (s *Store) ListStaleSessions(ctx context.Context, maxAge time.Duration) ([]models.PaymentSession, error) {
	cutoffAV, err := attributevalue.Marshal(time.Now().UTC().Add(-maxAge))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.SessionsTableName),
		IndexName:              aws.String(sessionStatusIndex),
		KeyConditionExpression: aws.String("#status = :status AND created_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.SessionPending)},
			":cutoff": cutoffAV,
		},
	}

	sessions := []models.PaymentSession{}
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query for stale payment sessions: %w", err)
		}

		var page []models.PaymentSession
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment sessions: %w", err)
		}
		sessions = append(sessions, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return sessions, nil
}
