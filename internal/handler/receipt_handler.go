package handler

import (
	"time"

	"go-pos-receipts/internal/export"
	"go-pos-receipts/internal/model"
	"go-pos-receipts/internal/money"
	"go-pos-receipts/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReceiptHandler struct {
	service  service.ReceiptService
	exporter *export.PDFExporter
}

func NewReceiptHandler(s service.ReceiptService, exporter *export.PDFExporter) *ReceiptHandler {
	return &ReceiptHandler{service: s, exporter: exporter}
}

type createReceiptBody struct {
	ReceiptNumber   string              `json:"receipt_number"`
	PaymentMethod   string              `json:"payment_method"`
	Items           []model.ReceiptItem `json:"items"`
	IncludeDiscount bool                `json:"include_discount"`
	DiscountRate    float64             `json:"discount_rate"`
	IncludeTax      bool                `json:"include_tax"`
	TaxRate         float64             `json:"tax_rate"`
}

func (h *ReceiptHandler) CreateReceipt(c *fiber.Ctx) error {
	var body createReceiptBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	receipt, err := h.service.CreateReceipt(service.CreateReceiptInput{
		ReceiptNumber: body.ReceiptNumber,
		PaymentMethod: model.PaymentMethod(body.PaymentMethod),
		Items:         body.Items,
		Options: money.Options{
			IncludeDiscount: body.IncludeDiscount,
			DiscountRate:    body.DiscountRate,
			IncludeTax:      body.IncludeTax,
			TaxRate:         body.TaxRate,
		},
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Receipt created", "data": receipt})
}

// GetReceipts lists history, optionally filtered by ?payment_method= or by
// ?start_date=&end_date= (RFC 3339 or YYYY-MM-DD).
func (h *ReceiptHandler) GetReceipts(c *fiber.Ctx) error {
	filter := service.ReceiptFilter{
		PaymentMethod: c.Query("payment_method"),
	}

	if startStr, endStr := c.Query("start_date"), c.Query("end_date"); startStr != "" && endStr != "" {
		start, err := parseDate(startStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid start_date"})
		}
		end, err := parseDate(endStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid end_date"})
		}
		filter.Start = &start
		filter.End = &end
	}

	receipts, err := h.service.GetReceipts(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(receipts)
}

func (h *ReceiptHandler) GetReceipt(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	receipt, err := h.service.GetReceipt(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(receipt)
}

// DownloadPDF renders a stored receipt to PDF for reprint.
func (h *ReceiptHandler) DownloadPDF(c *fiber.Ctx) error {
	if h.exporter == nil {
		return c.Status(503).JSON(fiber.Map{"error": "PDF export not configured"})
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	receipt, err := h.service.GetReceipt(id)
	if err != nil {
		return respondError(c, err)
	}

	payload, err := export.NewReceiptPayload(receipt)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	pdf, err := h.exporter.RenderReceipt(c.Context(), payload)
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="receipt-`+receipt.ReceiptNumber+`.pdf"`)
	return c.Send(pdf)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
