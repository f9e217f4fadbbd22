package mapping

import (
	"github.com/chris/credit-wallet-ledger/pkg/api"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/wallet"
)

// ToApiWallet converts a domain Wallet model to an API Wallet model.
func ToApiWallet(w *models.Wallet) *api.Wallet {
	return &api.Wallet{
		UserId:    w.UserId,
		Balance:   w.Balance,
		UpdatedAt: w.UpdatedAt,
	}
}

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) api.Transaction {
	out := api.Transaction{
		Id:        tx.Id,
		Amount:    tx.Amount,
		Direction: string(tx.Direction),
		Status:    string(tx.Status),
		Type:      string(tx.Detail.Type),
		OrderCode: tx.Detail.OrderCode,
		CreatedAt: tx.CreatedAt,
	}
	out.PaymentMethod = optional(tx.Detail.PaymentMethod)
	out.UsageType = optional(tx.Detail.UsageType)
	out.CourseId = optional(tx.Detail.CourseID)
	return out
}

func ToApiTransactionList(txs []models.Transaction) *api.TransactionList {
	list := &api.TransactionList{Transactions: make([]api.Transaction, len(txs))}
	for i := range txs {
		list.Transactions[i] = ToApiTransaction(&txs[i])
	}
	return list
}

// ToApiTopUp converts a started top-up to its API model.
func ToApiTopUp(t *wallet.TopUp) *api.TopUp {
	return &api.TopUp{
		OrderCode:   t.OrderCode,
		CheckoutUrl: t.CheckoutURL,
		Credits:     t.Credits,
		Amount:      t.Amount,
		ExpiresAt:   t.ExpiresAt,
	}
}

// ToDomainCharge converts an API NewCharge to the charge type and detail.
func ToDomainCharge(c *api.NewCharge) (models.TransactionType, models.TransactionDetail) {
	detail := models.TransactionDetail{Type: models.TransactionType(c.Type)}
	if c.UsageType != nil {
		detail.UsageType = *c.UsageType
	}
	if c.CourseId != nil {
		detail.CourseID = *c.CourseId
	}
	return detail.Type, detail
}

// ToDomainBuyer extracts the optional payer information of a top-up.
func ToDomainBuyer(t *api.NewTopUp) wallet.Buyer {
	var b wallet.Buyer
	if t.BuyerName != nil {
		b.Name = *t.BuyerName
	}
	if t.BuyerEmail != nil {
		b.Email = string(*t.BuyerEmail)
	}
	if t.BuyerPhone != nil {
		b.Phone = *t.BuyerPhone
	}
	return b
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
