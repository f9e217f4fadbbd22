package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
)

const (
	userTransactionsIndex = "user_id-created_at-index"
	sessionStatusIndex    = "status-created_at-index"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                DynamoDBAPI
	WalletsTableName      string
	TransactionsTableName string
	SessionsTableName     string
}

// New creates a new Store.
func New(client DynamoDBAPI, walletsTable, transactionsTable, sessionsTable string) *Store {
	return &Store{
		Client:                client,
		WalletsTableName:      walletsTable,
		TransactionsTableName: transactionsTable,
		SessionsTableName:     sessionsTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
