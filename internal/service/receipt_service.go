package service

import (
	"errors"
	"time"

	"go-pos-receipts/internal/model"
	"go-pos-receipts/internal/money"
	"go-pos-receipts/internal/repository"
	"go-pos-receipts/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateReceiptInput carries everything the operator assembled client-side.
// Item subtotals and the money breakdown are recomputed server-side; client
// arithmetic is never trusted.
type CreateReceiptInput struct {
	ReceiptNumber string              `json:"receipt_number" validate:"required"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"required,oneof=card cash"`
	Items         []model.ReceiptItem `json:"items" validate:"required,min=1"`
	Options       money.Options       `json:"options"`
}

// ReceiptFilter narrows the history listing. PaymentMethod wins over the
// date range when both are present; "all" or empty means no method filter.
type ReceiptFilter struct {
	PaymentMethod string
	Start         *time.Time
	End           *time.Time
}

type ReceiptService interface {
	CreateReceipt(input CreateReceiptInput) (*model.Receipt, error)
	GetReceipts(filter ReceiptFilter) ([]model.Receipt, error)
	GetReceipt(id uuid.UUID) (*model.Receipt, error)
}

type receiptService struct {
	receiptRepo repository.ReceiptRepository
	wsHub       *ws.Hub
	now         func() time.Time
}

func NewReceiptService(rRepo repository.ReceiptRepository, hub *ws.Hub) ReceiptService {
	return &receiptService{receiptRepo: rRepo, wsHub: hub, now: time.Now}
}

func (s *receiptService) CreateReceipt(input CreateReceiptInput) (*model.Receipt, error) {
	if err := validateStruct(&input); err != nil {
		return nil, err
	}

	// Rebuild the item list through the merge-on-duplicate policy. This
	// validates every quantity/price and recomputes each line subtotal.
	var items []model.ReceiptItem
	var err error
	for _, item := range input.Items {
		items, err = money.AddItem(items, item.ProductID, item.ProductName, item.Price, item.Quantity)
		if err != nil {
			return nil, err
		}
	}

	totals, err := money.ComputeTotals(items, input.Options)
	if err != nil {
		return nil, err
	}

	if _, err := s.receiptRepo.FindByNumber(input.ReceiptNumber); err == nil {
		return nil, ErrDuplicateReceiptNumber
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	receipt := &model.Receipt{
		ReceiptNumber:   input.ReceiptNumber,
		Date:            s.now(), // server clock, not client time
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		Tax:             totals.Tax,
		Total:           totals.Total,
		IncludeDiscount: input.Options.IncludeDiscount,
		DiscountRate:    input.Options.DiscountRate,
		IncludeTax:      input.Options.IncludeTax,
		TaxRate:         input.Options.TaxRate,
	}
	if err := receipt.SetItems(items); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.Create(receipt); err != nil {
		return nil, err
	}

	s.publish("receipt_created", map[string]interface{}{
		"id":             receipt.ID,
		"receipt_number": receipt.ReceiptNumber,
		"total":          receipt.Total,
		"payment_method": receipt.PaymentMethod,
		"date":           receipt.Date,
	})

	return receipt, nil
}

func (s *receiptService) GetReceipts(filter ReceiptFilter) ([]model.Receipt, error) {
	if filter.PaymentMethod != "" && filter.PaymentMethod != "all" {
		method := model.PaymentMethod(filter.PaymentMethod)
		if method != model.PaymentCard && method != model.PaymentCash {
			return nil, &ValidationError{Field: "payment_method", Message: "must be card, cash, or all"}
		}
		return s.receiptRepo.FindByPaymentMethod(method)
	}
	if filter.Start != nil && filter.End != nil {
		return s.receiptRepo.FindByDateRange(*filter.Start, *filter.End)
	}
	return s.receiptRepo.FindAll()
}

func (s *receiptService) GetReceipt(id uuid.UUID) (*model.Receipt, error) {
	receipt, err := s.receiptRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return receipt, nil
}

func (s *receiptService) publish(event string, data interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.Publish(event, data)
}
