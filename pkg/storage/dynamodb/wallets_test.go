package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/chris/credit-wallet-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			return *in.TableName == "wallets" && *in.ConditionExpression == "attribute_not_exists(user_id)"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "wallets", "transactions", "sessions")
		wallet := &models.Wallet{UserId: "test-user"}
		createdWallet, err := store.CreateWallet(context.Background(), wallet)

		assert.NoError(t, err)
		assert.Equal(t, wallet, createdWallet)
		assert.False(t, createdWallet.CreatedAt.IsZero())
		mockClient.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "wallets", "transactions", "sessions")
		_, err := store.CreateWallet(context.Background(), &models.Wallet{UserId: "test-user"})

		assert.ErrorIs(t, err, storage.ErrWalletExists)
		assert.Contains(t, err.Error(), "test-user")
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "wallets", "transactions", "sessions")
		_, err := store.CreateWallet(context.Background(), &models.Wallet{UserId: "test-user"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create wallet in DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestGetWallet(t *testing.T) {
	userID := "test-user"

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		expectedWallet := &models.Wallet{UserId: userID, Balance: 100, Version: 3}
		walletAV, _ := attributevalue.MarshalMap(expectedWallet)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: walletAV}, nil)

		store := New(mockClient, "wallets", "transactions", "sessions")
		wallet, err := store.GetWallet(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(100), wallet.Balance)
		assert.Equal(t, int64(3), wallet.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		store := New(mockClient, "wallets", "transactions", "sessions")
		_, err := store.GetWallet(context.Background(), userID)

		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("some storage error"))

		store := New(mockClient, "wallets", "transactions", "sessions")
		_, err := store.GetWallet(context.Background(), userID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get wallet from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}
