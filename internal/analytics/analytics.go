// Package analytics aggregates persisted receipts into dashboard figures.
// Compute takes the current instant as an explicit argument so the whole
// aggregation is deterministic.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"go-pos-receipts/internal/model"
	"go-pos-receipts/internal/money"
)

// PeriodStat is a time bucket's income and its change against the equal
// length preceding bucket, in percent rounded to 1 decimal.
type PeriodStat struct {
	Income float64 `json:"income"`
	Change float64 `json:"change"`
}

// MethodStat is one payment method's revenue share. Percentage is an
// integer percent of the grand total.
type MethodStat struct {
	Total      float64 `json:"total"`
	Percentage int     `json:"percentage"`
}

type PaymentMethods struct {
	Card MethodStat `json:"card"`
	Cash MethodStat `json:"cash"`
}

// RecentReceipt is the reduced shape shown on the dashboard.
type RecentReceipt struct {
	ID     uuid.UUID           `json:"id"`
	Number string              `json:"number"`
	Amount float64             `json:"amount"`
	Method model.PaymentMethod `json:"method"`
	Date   time.Time           `json:"date"`
}

// TopProduct accumulates a product's sold quantity and revenue across all
// receipts. The name is taken from the first occurrence encountered.
type TopProduct struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type Summary struct {
	Daily          PeriodStat      `json:"daily"`
	Weekly         PeriodStat      `json:"weekly"`
	Monthly        PeriodStat      `json:"monthly"`
	PaymentMethods PaymentMethods  `json:"paymentMethods"`
	RecentReceipts []RecentReceipt `json:"recentReceipts"`
	TopProducts    []TopProduct    `json:"topProducts"`
}

// Compute aggregates the full receipt history into dashboard figures.
// Buckets are calendar-aligned in now's location: the local day, the week
// starting Sunday 00:00, and the calendar month. A receipt whose item JSON
// fails to parse is skipped for top products only; its own total, payment
// method and date still count toward the income and payment buckets.
func Compute(receipts []model.Receipt, now time.Time) Summary {
	loc := now.Location()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	startOfYesterday := startOfToday.AddDate(0, 0, -1)
	startOfThisWeek := startOfToday.AddDate(0, 0, -int(now.Weekday()))
	startOfLastWeek := startOfThisWeek.AddDate(0, 0, -7)
	startOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	startOfLastMonth := startOfThisMonth.AddDate(0, -1, 0)

	return Summary{
		Daily:          periodStat(receipts, startOfToday, startOfYesterday),
		Weekly:         periodStat(receipts, startOfThisWeek, startOfLastWeek),
		Monthly:        periodStat(receipts, startOfThisMonth, startOfLastMonth),
		PaymentMethods: paymentSplit(receipts),
		RecentReceipts: recentReceipts(receipts),
		TopProducts:    topProducts(receipts),
	}
}

// periodStat sums receipt totals in [curStart, inf) and [prevStart, curStart)
// and derives the period-over-period change. When the previous period had no
// income the change is 100 if the current period has any, otherwise 0; this
// avoids a division by zero while still signaling new activity.
func periodStat(receipts []model.Receipt, curStart, prevStart time.Time) PeriodStat {
	var current, previous float64
	for _, r := range receipts {
		switch {
		case !r.Date.Before(curStart):
			current += r.Total
		case !r.Date.Before(prevStart):
			previous += r.Total
		}
	}

	var change float64
	switch {
	case previous > 0:
		change = round1((current - previous) / previous * 100)
	case current > 0:
		change = 100
	}

	return PeriodStat{Income: money.Round2(current), Change: change}
}

func paymentSplit(receipts []model.Receipt) PaymentMethods {
	var card, cash float64
	for _, r := range receipts {
		switch r.PaymentMethod {
		case model.PaymentCard:
			card += r.Total
		case model.PaymentCash:
			cash += r.Total
		}
	}

	grand := card + cash
	pct := func(part float64) int {
		if grand <= 0 {
			return 0
		}
		return int(math.Round(part / grand * 100))
	}

	return PaymentMethods{
		Card: MethodStat{Total: money.Round2(card), Percentage: pct(card)},
		Cash: MethodStat{Total: money.Round2(cash), Percentage: pct(cash)},
	}
}

// recentReceipts returns the 5 most recently dated receipts, newest first.
func recentReceipts(receipts []model.Receipt) []RecentReceipt {
	sorted := make([]model.Receipt, len(receipts))
	copy(sorted, receipts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	if len(sorted) > 5 {
		sorted = sorted[:5]
	}

	recent := make([]RecentReceipt, 0, len(sorted))
	for _, r := range sorted {
		recent = append(recent, RecentReceipt{
			ID:     r.ID,
			Number: r.ReceiptNumber,
			Amount: r.Total,
			Method: r.PaymentMethod,
			Date:   r.Date,
		})
	}
	return recent
}

// topProducts ranks products by accumulated revenue over the whole receipt
// history, keyed by product id, and keeps the top 5. Catalog products that
// never sold do not appear.
func topProducts(receipts []model.Receipt) []TopProduct {
	type sales struct {
		name    string
		count   int
		revenue float64
	}
	perProduct := map[string]*sales{}
	var order []string

	for _, r := range receipts {
		items, err := r.ItemList()
		if err != nil {
			// Malformed item JSON must not abort the whole aggregation.
			continue
		}
		for _, item := range items {
			s, ok := perProduct[item.ProductID]
			if !ok {
				s = &sales{name: item.ProductName}
				perProduct[item.ProductID] = s
				order = append(order, item.ProductID)
			}
			s.count += item.Quantity
			s.revenue += item.Subtotal
		}
	}

	top := make([]TopProduct, 0, len(order))
	for _, id := range order {
		s := perProduct[id]
		top = append(top, TopProduct{Name: s.name, Count: s.count, Revenue: money.Round2(s.revenue)})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Revenue > top[j].Revenue
	})
	if len(top) > 5 {
		top = top[:5]
	}
	return top
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
