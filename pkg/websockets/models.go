package websockets

// MessageType defines the type of a realtime message.
type MessageType string

const (
	// MessageTypeWalletUpdate is for messages that update wallet balances.
	MessageTypeWalletUpdate MessageType = "walletUpdate"
	// MessageTypePaymentStatus tells the payer a checkout reached a final status.
	MessageTypePaymentStatus MessageType = "paymentStatus"
)

// Message represents a generic realtime message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// WalletUpdatePayload is the payload for a walletUpdate message.
type WalletUpdatePayload struct {
	UserID        string `json:"user_id"`
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
	Change        int64  `json:"change"`
	NewBalance    int64  `json:"new_balance"`
}

// PaymentStatusPayload is the payload for a paymentStatus message.
type PaymentStatusPayload struct {
	UserID    string `json:"user_id"`
	OrderCode int64  `json:"order_code"`
	Status    string `json:"status"`
}
