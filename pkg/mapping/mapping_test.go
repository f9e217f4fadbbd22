package mapping

import (
	"testing"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/api"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToApiTransaction(t *testing.T) {
	orderCode := int64(1760000000123)
	tx := &models.Transaction{
		Id:        "tx-1",
		UserId:    "user1",
		Amount:    100,
		Direction: models.Credit,
		Status:    models.COMPLETED,
		Detail: models.TransactionDetail{
			Type:          models.Recharge,
			PaymentMethod: models.PaymentMethodPayOS,
			OrderCode:     &orderCode,
		},
		CreatedAt: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
	}

	out := ToApiTransaction(tx)

	assert.Equal(t, "credit", out.Direction)
	assert.Equal(t, "recharge", out.Type)
	require.NotNil(t, out.PaymentMethod)
	assert.Equal(t, "payos", *out.PaymentMethod)
	assert.Equal(t, &orderCode, out.OrderCode)
	assert.Nil(t, out.UsageType)
	assert.Nil(t, out.CourseId)
}

func TestToDomainCharge(t *testing.T) {
	usage := "chat"
	chargeType, detail := ToDomainCharge(&api.NewCharge{Amount: 3, Type: "ai_usage", UsageType: &usage})

	assert.Equal(t, models.AIUsage, chargeType)
	assert.Equal(t, "chat", detail.UsageType)
	assert.Empty(t, detail.CourseID)
}

func TestToDomainBuyer(t *testing.T) {
	name := "Nguyen Van A"
	email := openapi_types.Email("a@example.com")

	buyer := ToDomainBuyer(&api.NewTopUp{Credits: 10, BuyerName: &name, BuyerEmail: &email})

	assert.Equal(t, "Nguyen Van A", buyer.Name)
	assert.Equal(t, "a@example.com", buyer.Email)
	assert.Empty(t, buyer.Phone)
}
