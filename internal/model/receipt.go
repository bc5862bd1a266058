package model

import (
	"encoding/json"
	"time"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// ReceiptItem is one line on a receipt. Price and name are snapshots taken
// when the item was added, independent of the live catalog.
// Invariant: Subtotal == Quantity * Price.
type ReceiptItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

// Receipt is an immutable record of one completed sale. The item list is
// stored as JSON text in a single column. Rate flags and percentages are
// persisted so a reprint can reproduce the original breakdown instead of
// inferring it from the stored totals.
type Receipt struct {
	BaseModel
	ReceiptNumber   string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"receipt_number" validate:"required"`
	Date            time.Time     `gorm:"not null;index" json:"date"`
	PaymentMethod   PaymentMethod `gorm:"type:varchar(10);not null" json:"payment_method" validate:"required,oneof=card cash"`
	Subtotal        float64       `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Discount        float64       `gorm:"type:numeric(10,2);not null;default:0" json:"discount"`
	Tax             float64       `gorm:"type:numeric(10,2);not null;default:0" json:"tax"`
	Total           float64       `gorm:"type:numeric(10,2);not null" json:"total"`
	IncludeDiscount bool          `gorm:"default:false" json:"include_discount"`
	DiscountRate    float64       `gorm:"type:numeric(5,2);default:0" json:"discount_rate"`
	IncludeTax      bool          `gorm:"default:false" json:"include_tax"`
	TaxRate         float64       `gorm:"type:numeric(5,2);default:0" json:"tax_rate"`
	Items           string        `gorm:"type:text;not null" json:"items"`
}

// ItemList parses the stored JSON item column.
func (r *Receipt) ItemList() ([]ReceiptItem, error) {
	var items []ReceiptItem
	if err := json.Unmarshal([]byte(r.Items), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItems serializes the item list into the JSON column.
func (r *Receipt) SetItems(items []ReceiptItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	r.Items = string(data)
	return nil
}
