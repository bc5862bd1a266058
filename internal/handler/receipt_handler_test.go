package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos-receipts/internal/model"
	"go-pos-receipts/internal/service"
)

// stubReceiptService lets each test pin the service outcome.
type stubReceiptService struct {
	receipt    *model.Receipt
	receipts   []model.Receipt
	err        error
	lastInput  service.CreateReceiptInput
	lastFilter service.ReceiptFilter
}

func (s *stubReceiptService) CreateReceipt(input service.CreateReceiptInput) (*model.Receipt, error) {
	s.lastInput = input
	return s.receipt, s.err
}

func (s *stubReceiptService) GetReceipts(filter service.ReceiptFilter) ([]model.Receipt, error) {
	s.lastFilter = filter
	return s.receipts, s.err
}

func (s *stubReceiptService) GetReceipt(id uuid.UUID) (*model.Receipt, error) {
	return s.receipt, s.err
}

func newTestApp(svc service.ReceiptService) *fiber.App {
	app := fiber.New()
	h := NewReceiptHandler(svc, nil)
	app.Post("/api/v1/receipts", h.CreateReceipt)
	app.Get("/api/v1/receipts", h.GetReceipts)
	app.Get("/api/v1/receipts/:id", h.GetReceipt)
	app.Get("/api/v1/receipts/:id/pdf", h.DownloadPDF)
	return app
}

func sampleReceipt() *model.Receipt {
	r := &model.Receipt{
		ReceiptNumber: "RCT-000001",
		Date:          time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC),
		PaymentMethod: model.PaymentCard,
		Subtotal:      17.99,
		Total:         17.99,
	}
	r.ID = uuid.New()
	return r
}

func TestCreateReceipt_Created(t *testing.T) {
	stub := &stubReceiptService{receipt: sampleReceipt()}
	app := newTestApp(stub)

	body := `{
		"receipt_number": "RCT-000001",
		"payment_method": "card",
		"include_discount": true,
		"discount_rate": 10,
		"items": [{"productId":"1","productName":"Coffee","quantity":2,"price":4.5}]
	}`
	req := httptest.NewRequest("POST", "/api/v1/receipts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	assert.Equal(t, "RCT-000001", stub.lastInput.ReceiptNumber)
	assert.Equal(t, model.PaymentCard, stub.lastInput.PaymentMethod)
	assert.True(t, stub.lastInput.Options.IncludeDiscount)
	assert.Equal(t, 10.0, stub.lastInput.Options.DiscountRate)
	require.Len(t, stub.lastInput.Items, 1)
	assert.Equal(t, "Coffee", stub.lastInput.Items[0].ProductName)
}

func TestCreateReceipt_InvalidJSON(t *testing.T) {
	app := newTestApp(&stubReceiptService{})

	req := httptest.NewRequest("POST", "/api/v1/receipts", strings.NewReader("{nope"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCreateReceipt_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"duplicate number", service.ErrDuplicateReceiptNumber, 409},
		{"validation", &service.ValidationError{Field: "payment_method", Message: "failed on 'oneof'"}, 400},
		{"persistence", io.ErrUnexpectedEOF, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubReceiptService{err: tt.err})

			body := `{"receipt_number":"RCT-1","payment_method":"card","items":[]}`
			req := httptest.NewRequest("POST", "/api/v1/receipts", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestGetReceipts_PassesFilter(t *testing.T) {
	stub := &stubReceiptService{receipts: []model.Receipt{*sampleReceipt()}}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/receipts?payment_method=cash&start_date=2024-05-01&end_date=2024-05-15", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, "cash", stub.lastFilter.PaymentMethod)
	require.NotNil(t, stub.lastFilter.Start)
	require.NotNil(t, stub.lastFilter.End)
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), *stub.lastFilter.Start)

	var listed []model.Receipt
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Len(t, listed, 1)
}

func TestGetReceipts_RejectsBadDate(t *testing.T) {
	app := newTestApp(&stubReceiptService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/receipts?start_date=yesterday&end_date=2024-05-15", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetReceipt_NotFound(t *testing.T) {
	app := newTestApp(&stubReceiptService{err: service.ErrNotFound})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/receipts/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGetReceipt_InvalidID(t *testing.T) {
	app := newTestApp(&stubReceiptService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/receipts/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestDownloadPDF_ExporterNotConfigured(t *testing.T) {
	app := newTestApp(&stubReceiptService{receipt: sampleReceipt()})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/receipts/"+uuid.NewString()+"/pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}
