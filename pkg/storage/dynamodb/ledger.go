package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
)

func numberAV(n int64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}

// Debit atomically decrements the wallet balance with a floor of zero and records the transaction.
func (s *Store) Debit(ctx context.Context, tx *models.Transaction) error {
	storage.PrepareTransaction(tx)

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	nowAV, err := attributevalue.Marshal(tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Decrement the wallet, guarded by the balance floor.
				Update: &types.Update{
					TableName: aws.String(s.WalletsTableName),
					Key: map[string]types.AttributeValue{
						"user_id": &types.AttributeValueMemberS{Value: tx.UserId},
					},
					UpdateExpression:    aws.String("SET balance = balance - :amount, version = version + :inc, updated_at = :now"),
					ConditionExpression: aws.String("attribute_exists(user_id) AND balance >= :amount"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": numberAV(tx.Magnitude()),
						":inc":    numberAV(1),
						":now":    nowAV,
					},
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
				},
			},
			{
				// Operation 2: Create the transaction record.
				Put: &types.Put{
					TableName:           aws.String(s.TransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		if conditionFailedAt(err, 0) {
			if conditionFailedOnExistingItem(err, 0) {
				return storage.ErrInsufficientFunds
			}
			return fmt.Errorf("wallet for user ID %s: %w", tx.UserId, storage.ErrWalletNotFound)
		}
		return &storage.LedgerConsistencyError{Op: "debit", Err: fmt.Errorf("failed to execute transaction: %w", err)}
	}

	return nil
}

// Credit atomically increments the wallet balance and records the transaction.
func (s *Store) Credit(ctx context.Context, tx *models.Transaction) error {
	storage.PrepareTransaction(tx)

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	nowAV, err := attributevalue.Marshal(tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: aws.String(s.WalletsTableName),
					Key: map[string]types.AttributeValue{
						"user_id": &types.AttributeValueMemberS{Value: tx.UserId},
					},
					UpdateExpression:    aws.String("SET balance = balance + :amount, version = version + :inc, updated_at = :now"),
					ConditionExpression: aws.String("attribute_exists(user_id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": numberAV(tx.Magnitude()),
						":inc":    numberAV(1),
						":now":    nowAV,
					},
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.TransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		if conditionFailedAt(err, 0) {
			return fmt.Errorf("wallet for user ID %s: %w", tx.UserId, storage.ErrWalletNotFound)
		}
		return &storage.LedgerConsistencyError{Op: "credit", Err: fmt.Errorf("failed to execute transaction: %w", err)}
	}

	return nil
}
