package repository

import (
	"time"

	"go-pos-receipts/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(receipt *model.Receipt) error
	FindAll() ([]model.Receipt, error)
	FindByID(id uuid.UUID) (*model.Receipt, error)
	FindByNumber(number string) (*model.Receipt, error)
	FindByPaymentMethod(method model.PaymentMethod) ([]model.Receipt, error)
	FindByDateRange(start, end time.Time) ([]model.Receipt, error)
}

type receiptRepo struct {
	db *gorm.DB
}

func NewReceiptRepo(db *gorm.DB) ReceiptRepository {
	return &receiptRepo{db}
}

func (r *receiptRepo) Create(receipt *model.Receipt) error {
	return r.db.Create(receipt).Error
}

func (r *receiptRepo) FindAll() ([]model.Receipt, error) {
	var receipts []model.Receipt
	err := r.db.Order("date DESC").Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepo) FindByID(id uuid.UUID) (*model.Receipt, error) {
	var receipt model.Receipt
	err := r.db.First(&receipt, "id = ?", id).Error
	return &receipt, err
}

func (r *receiptRepo) FindByNumber(number string) (*model.Receipt, error) {
	var receipt model.Receipt
	err := r.db.First(&receipt, "receipt_number = ?", number).Error
	return &receipt, err
}

func (r *receiptRepo) FindByPaymentMethod(method model.PaymentMethod) ([]model.Receipt, error) {
	var receipts []model.Receipt
	err := r.db.Where("payment_method = ?", method).Order("date DESC").Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepo) FindByDateRange(start, end time.Time) ([]model.Receipt, error) {
	var receipts []model.Receipt
	err := r.db.Where("date BETWEEN ? AND ?", start, end).Order("date DESC").Find(&receipts).Error
	return receipts, err
}
