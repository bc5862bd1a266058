package service

import (
	"time"

	"go-pos-receipts/internal/analytics"
	"go-pos-receipts/internal/repository"
)

type AnalyticsService interface {
	GetSummary() (analytics.Summary, error)
}

type analyticsService struct {
	receiptRepo repository.ReceiptRepository
	now         func() time.Time
}

func NewAnalyticsService(rRepo repository.ReceiptRepository) AnalyticsService {
	return &analyticsService{receiptRepo: rRepo, now: time.Now}
}

// GetSummary loads the full receipt history and aggregates it. The store
// read is the only I/O; the aggregation itself is pure.
func (s *analyticsService) GetSummary() (analytics.Summary, error) {
	receipts, err := s.receiptRepo.FindAll()
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Compute(receipts, s.now()), nil
}
