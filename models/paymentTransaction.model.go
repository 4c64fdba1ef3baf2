package models

import (
	"time"

	"gorm.io/gorm"
)

// TransactionStatus defines the status of a payment transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusExpired   TransactionStatus = "EXPIRED"
)

// PaymentTransaction is the audit record kept for every payment initiated
// with the gateway. The gateway request itself is ephemeral; this row is what
// the transaction history and the expiry sweeper work from.
type PaymentTransaction struct {
	gorm.Model
	OrderRef string  `gorm:"type:varchar(64);uniqueIndex" json:"orderRef"`
	UserID   uint    `gorm:"not null;index" json:"userId"`
	CourseID uint    `gorm:"not null;index" json:"courseId"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"type:varchar(10);default:'PKR'" json:"currency"`

	// Gateway references
	TxnRefNo           string            `gorm:"type:varchar(100);index" json:"txnRefNo"`
	BillReference      string            `gorm:"type:varchar(150)" json:"billReference"`
	Status             TransactionStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	GatewayResponseRaw string            `gorm:"type:text" json:"gatewayResponseRaw"`

	TransactionDate time.Time  `gorm:"not null" json:"transactionDate"`
	ExpiresAt       *time.Time `json:"expiresAt"`
	IsDeleted       bool       `gorm:"default:false" json:"isDeleted"`

	// Relations - omit in JSON by default (only load when needed)
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Course Course `gorm:"foreignKey:CourseID" json:"-"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
