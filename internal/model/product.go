package model

// Product is a catalog entry. Receipts snapshot name/price at add-time,
// so editing a product never rewrites historical receipts.
type Product struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:numeric(10,2);not null;default:0" json:"price" validate:"gte=0"`
}
