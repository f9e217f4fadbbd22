package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
)

// ApplyRecharge credits a confirmed payment exactly once.
// The session status acts as the lock: the write only commits while the session
// is not PAID, so concurrent webhook and poll deliveries cannot both succeed.
func (s *Store) ApplyRecharge(ctx context.Context, session *models.PaymentSession, tx *models.Transaction) error {
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
				// Operation 1: Close the session as PAID unless another delivery already did.
				Update: &types.Update{
					TableName: aws.String(s.SessionsTableName),
					Key: map[string]types.AttributeValue{
						"order_code": numberAV(session.OrderCode),
					},
					UpdateExpression:    aws.String("SET #status = :paid, paid_amount = :paid_amount, transaction_id = :tx_id, updated_at = :now"),
					ConditionExpression: aws.String("attribute_exists(order_code) AND #status <> :paid"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":paid":        &types.AttributeValueMemberS{Value: string(models.SessionPaid)},
						":paid_amount": numberAV(tx.Detail.CurrencyAmount),
						":tx_id":       &types.AttributeValueMemberS{Value: tx.Id},
						":now":         nowAV,
					},
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
				},
			},
			{
				// Operation 2: Create the recharge transaction.
				Put: &types.Put{
					TableName:           aws.String(s.TransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				// Operation 3: Credit the wallet.
				Update: &types.Update{
					TableName: aws.String(s.WalletsTableName),
					Key: map[string]types.AttributeValue{
						"user_id": &types.AttributeValueMemberS{Value: tx.UserId},
					},
					UpdateExpression:    aws.String("SET balance = balance + :amount, version = version + :inc, updated_at = :now"),
					ConditionExpression: aws.String("attribute_exists(user_id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": numberAV(tx.Amount),
						":inc":    numberAV(1),
						":now":    nowAV,
					},
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		switch {
		case conditionFailedOnExistingItem(err, 0):
			return storage.ErrAlreadyReconciled
		case conditionFailedAt(err, 0):
			return fmt.Errorf("order code %d: %w", session.OrderCode, storage.ErrSessionNotFound)
		case conditionFailedAt(err, 2):
			return fmt.Errorf("wallet for user ID %s: %w", tx.UserId, storage.ErrWalletNotFound)
		}
		return &storage.LedgerConsistencyError{Op: "apply recharge", Err: fmt.Errorf("failed to execute transaction: %w", err)}
	}

	session.Status = models.SessionPaid
	session.PaidAmount = tx.Detail.CurrencyAmount
	session.TransactionId = tx.Id
	return nil
}
