// Package export renders finalized receipts to PDF through a Gotenberg
// endpoint: the receipt is laid out as HTML and converted by Gotenberg's
// chromium route.
package export

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go-pos-receipts/internal/model"
)

//go:embed templates/*.html
var templates embed.FS

// ReceiptPayload aggregates receipt data for PDF rendering. The discount and
// tax lines come from the persisted rate columns, so a reprint shows the
// breakdown exactly as it was at sale time.
type ReceiptPayload struct {
	ReceiptNumber   string
	Date            time.Time
	PaymentMethod   model.PaymentMethod
	Items           []model.ReceiptItem
	Subtotal        float64
	Discount        float64
	Tax             float64
	Total           float64
	IncludeDiscount bool
	DiscountRate    float64
	IncludeTax      bool
	TaxRate         float64
}

// NewReceiptPayload builds a payload from a stored receipt.
func NewReceiptPayload(r *model.Receipt) (ReceiptPayload, error) {
	items, err := r.ItemList()
	if err != nil {
		return ReceiptPayload{}, fmt.Errorf("parse receipt items: %w", err)
	}
	return ReceiptPayload{
		ReceiptNumber:   r.ReceiptNumber,
		Date:            r.Date,
		PaymentMethod:   r.PaymentMethod,
		Items:           items,
		Subtotal:        r.Subtotal,
		Discount:        r.Discount,
		Tax:             r.Tax,
		Total:           r.Total,
		IncludeDiscount: r.IncludeDiscount,
		DiscountRate:    r.DiscountRate,
		IncludeTax:      r.IncludeTax,
		TaxRate:         r.TaxRate,
	}, nil
}

// PDFExporter wraps Gotenberg interactions for receipt PDF generation.
type PDFExporter struct {
	Endpoint  string
	Client    *http.Client
	templates *template.Template
}

// NewPDFExporter creates a PDFExporter with parsed templates.
func NewPDFExporter(endpoint string, client *http.Client) (*PDFExporter, error) {
	funcMap := template.FuncMap{
		"formatMoney": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"formatRate": func(v float64) string {
			s := fmt.Sprintf("%.2f", v)
			s = strings.TrimRight(s, "0")
			s = strings.TrimRight(s, ".")
			return s
		},
		"formatDateTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 15:04")
		},
		"upper": strings.ToUpper,
	}

	tpl, err := template.New("receipt_pdf.html").Funcs(funcMap).ParseFS(
		templates, "templates/receipt_pdf.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse receipt template: %w", err)
	}

	return &PDFExporter{
		Endpoint:  endpoint,
		Client:    client,
		templates: tpl,
	}, nil
}

// RenderReceipt sends the rendered HTML to Gotenberg and returns the PDF bytes.
func (p *PDFExporter) RenderReceipt(ctx context.Context, payload ReceiptPayload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("pdf exporter not initialized")
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("gotenberg endpoint required")
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	html, err := p.buildReceiptHTML(payload)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("files", "receipt.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, err
	}

	// Narrow thermal-receipt page size
	fields := map[string]string{
		"paperWidth":   "3.15",
		"paperHeight":  "11",
		"marginTop":    "0.2",
		"marginBottom": "0.2",
		"marginLeft":   "0.2",
		"marginRight":  "0.2",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

func (p *PDFExporter) buildReceiptHTML(payload ReceiptPayload) (string, error) {
	if p.templates == nil {
		return "", fmt.Errorf("templates not initialized")
	}

	buf := &bytes.Buffer{}
	if err := p.templates.ExecuteTemplate(buf, "receipt_pdf.html", payload); err != nil {
		return "", err
	}
	return buf.String(), nil
}
