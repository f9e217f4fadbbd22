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

func TestApplyRecharge(t *testing.T) {
	orderCode := int64(1760000000123)
	newRecharge := func() *models.Transaction {
		code := orderCode
		return models.NewCreditTransaction("user1", 100, models.TransactionDetail{
			Type:           models.Recharge,
			PaymentMethod:  models.PaymentMethodPayOS,
			OrderCode:      &code,
			CurrencyAmount: 100000,
		})
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "wallets", "transactions", "sessions")
		session := &models.PaymentSession{OrderCode: orderCode, UserId: "user1", Status: models.SessionPending}

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 3 {
				return false
			}
			sessionUpdate := in.TransactItems[0].Update
			walletUpdate := in.TransactItems[2].Update
			key := sessionUpdate.Key["order_code"].(*types.AttributeValueMemberN)
			credits := walletUpdate.ExpressionAttributeValues[":amount"].(*types.AttributeValueMemberN)
			return *sessionUpdate.TableName == "sessions" &&
				*sessionUpdate.ConditionExpression == "attribute_exists(order_code) AND #status <> :paid" &&
				key.Value == "1760000000123" &&
				*walletUpdate.TableName == "wallets" &&
				credits.Value == "100"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		tx := newRecharge()
		err := store.ApplyRecharge(context.Background(), session, tx)

		assert.NoError(t, err)
		assert.Equal(t, models.SessionPaid, session.Status)
		assert.Equal(t, tx.Id, session.TransactionId)
		assert.Equal(t, int64(100000), session.PaidAmount)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Reconciled", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "wallets", "transactions", "sessions")
		session := &models.PaymentSession{OrderCode: orderCode, UserId: "user1", Status: models.SessionPending}

		paidAV, _ := attributevalue.MarshalMap(&models.PaymentSession{OrderCode: orderCode, Status: models.SessionPaid})
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, conditionFailure(
			types.CancellationReason{Code: aws.String("ConditionalCheckFailed"), Item: paidAV},
			types.CancellationReason{Code: aws.String("None")},
			types.CancellationReason{Code: aws.String("None")},
		))

		err := store.ApplyRecharge(context.Background(), session, newRecharge())

		assert.ErrorIs(t, err, storage.ErrAlreadyReconciled)
		assert.Equal(t, models.SessionPending, session.Status)
		mockClient.AssertExpectations(t)
	})

	t.Run("Wallet Missing", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "wallets", "transactions", "sessions")

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, conditionFailure(
			types.CancellationReason{Code: aws.String("None")},
			types.CancellationReason{Code: aws.String("None")},
			types.CancellationReason{Code: aws.String("ConditionalCheckFailed")},
		))

		err := store.ApplyRecharge(context.Background(), &models.PaymentSession{OrderCode: orderCode}, newRecharge())

		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Conflict Is Retryable", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "wallets", "transactions", "sessions")

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, conditionFailure(
			types.CancellationReason{Code: aws.String("TransactionConflict")},
			types.CancellationReason{Code: aws.String("None")},
			types.CancellationReason{Code: aws.String("None")},
		))

		err := store.ApplyRecharge(context.Background(), &models.PaymentSession{OrderCode: orderCode}, newRecharge())

		var lce *storage.LedgerConsistencyError
		assert.True(t, errors.As(err, &lce))
		assert.Equal(t, "apply recharge", lce.Op)
		mockClient.AssertExpectations(t)
	})
}
