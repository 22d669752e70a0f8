package models

import "gorm.io/gorm"

// Order kinds: a project purchase or a coin-pack top-up for chat.
const (
	OrderKindProject  = "PROJECT"
	OrderKindCoinPack = "COIN_PACK"
)

// Order is a buyer's purchase of a project or coin pack. Amounts are in
// major currency units; the gateway client converts to minor units.
type Order struct {
	gorm.Model
	BuyerID        uint          `gorm:"not null;index"                 json:"buyer_id"`
	ProjectID      *uint         `gorm:"index"                          json:"project_id,omitempty"`
	Kind           string        `gorm:"size:20;not null;default:PROJECT" json:"kind"`
	TotalAmount    float64       `gorm:"not null"                       json:"total_amount"`
	Currency       string        `gorm:"size:3;not null;default:INR"    json:"currency"`
	Status         PaymentStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	PaymentID      string        `gorm:"size:64;index"                  json:"payment_id,omitempty"`
	GatewayOrderID string        `gorm:"size:64;index"                  json:"gateway_order_id,omitempty"`
	Receipt        string        `gorm:"size:64;uniqueIndex"            json:"receipt"`
	CoinAmount     int64         `gorm:"not null;default:0"             json:"coin_amount,omitempty"`
}

// Prebooking reserves a product before launch. It carries the buyer's
// details as an opaque blob and goes through the same payment lifecycle;
// a verified payment completes it directly.
type Prebooking struct {
	gorm.Model
	ProductTitle   string        `gorm:"size:255;not null"              json:"product_title"`
	BuyerID        uint          `gorm:"not null;index"                 json:"buyer_id"`
	UserDetails    string        `gorm:"type:text"                      json:"user_details"`
	Amount         float64       `gorm:"not null"                       json:"amount"`
	Currency       string        `gorm:"size:3;not null;default:INR"    json:"currency"`
	Status         PaymentStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	PaymentID      string        `gorm:"size:64;index"                  json:"payment_id,omitempty"`
	GatewayOrderID string        `gorm:"size:64;index"                  json:"gateway_order_id,omitempty"`
	Receipt        string        `gorm:"size:64;uniqueIndex"            json:"receipt"`
}
