package dynamodb

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const conditionalCheckFailed = "ConditionalCheckFailed"

// cancellationReason returns the cancellation reason of the i-th operation of a
// cancelled TransactWriteItems call.
func cancellationReason(err error, i int) (types.CancellationReason, bool) {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) || len(tce.CancellationReasons) <= i {
		return types.CancellationReason{}, false
	}
	return tce.CancellationReasons[i], true
}

// conditionFailedAt reports whether the i-th operation failed its condition expression.
func conditionFailedAt(err error, i int) bool {
	reason, ok := cancellationReason(err, i)
	return ok && reason.Code != nil && *reason.Code == conditionalCheckFailed
}

// conditionFailedOnExistingItem reports whether the i-th operation failed its
// condition against an item that exists. It relies on ALL_OLD being returned
// on condition check failure.
func conditionFailedOnExistingItem(err error, i int) bool {
	reason, _ := cancellationReason(err, i)
	return conditionFailedAt(err, i) && len(reason.Item) > 0
}
