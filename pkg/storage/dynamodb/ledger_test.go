package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/chris/credit-wallet-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func conditionFailure(reasons ...types.CancellationReason) error {
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}

func TestDebit(t *testing.T) {
	detail := models.TransactionDetail{Type: models.AIUsage, UsageType: "quiz_generation"}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "wallets", "transactions", "sessions")

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			update := in.TransactItems[0].Update
			amount := update.ExpressionAttributeValues[":amount"].(*types.AttributeValueMemberN)
			return len(in.TransactItems) == 2 &&
				*update.ConditionExpression == "attribute_exists(user_id) AND balance >= :amount" &&
				amount.Value == "5" &&
				*in.TransactItems[1].Put.TableName == "transactions"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		tx := models.NewDebitTransaction("user1", 5, detail)
		err := store.Debit(context.Background(), tx)

		assert.NoError(t, err)
		assert.NotEmpty(t, tx.Id)
		assert.Equal(t, int64(-5), tx.Amount)
		assert.False(t, tx.CreatedAt.IsZero())
		mockClient.AssertExpectations(t)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "wallets", "transactions", "sessions")

		walletAV, _ := attributevalue.MarshalMap(&models.Wallet{UserId: "user1", Balance: 3})
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, conditionFailure(
			types.CancellationReason{Code: aws.String("ConditionalCheckFailed"), Item: walletAV},
			types.CancellationReason{Code: aws.String("None")},
		))

		err := store.Debit(context.Background(), models.NewDebitTransaction("user1", 5, detail))

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		mockClient.AssertExpectations(t)
	})

	t.Run("Wallet Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "wallets", "transactions", "sessions")

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, conditionFailure(
			types.CancellationReason{Code: aws.String("ConditionalCheckFailed")},
			types.CancellationReason{Code: aws.String("None")},
		))

		err := store.Debit(context.Background(), models.NewDebitTransaction("ghost", 5, detail))

		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Transaction Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "wallets", "transactions", "sessions")

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		err := store.Debit(context.Background(), models.NewDebitTransaction("user1", 5, detail))

		assert.Error(t, err)
		assert.True(t, storage.IsRetryable(err))
		assert.Contains(t, err.Error(), "failed to execute transaction")
		mockClient.AssertExpectations(t)
	})
}

func TestCredit(t *testing.T) {
	detail := models.TransactionDetail{Type: models.Recharge, PaymentMethod: models.PaymentMethodManual}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "wallets", "transactions", "sessions")

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			update := in.TransactItems[0].Update
			return *update.UpdateExpression == "SET balance = balance + :amount, version = version + :inc, updated_at = :now"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.Credit(context.Background(), models.NewCreditTransaction("user1", 50, detail))

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Wallet Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "wallets", "transactions", "sessions")

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, conditionFailure(
			types.CancellationReason{Code: aws.String("ConditionalCheckFailed")},
		))

		err := store.Credit(context.Background(), models.NewCreditTransaction("ghost", 50, detail))

		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
		mockClient.AssertExpectations(t)
	})
}
