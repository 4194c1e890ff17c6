package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/domain/repository"
	"farumasi-backend/pkg/geo"

	"github.com/shopspring/decimal"
)

var ErrProductNotAtPharmacy = errors.New("product not found in pharmacy")

// Discount rates by insurance code; unknown codes get no discount
var insuranceDiscounts = map[string]decimal.Decimal{
	"RSSB":     decimal.NewFromFloat(0.20),
	"MUTUELLE": decimal.NewFromFloat(0.10),
}

// DiscountRate returns the share of the subtotal covered by the insurance code
func DiscountRate(insurance string) decimal.Decimal {
	if rate, ok := insuranceDiscounts[strings.ToUpper(insurance)]; ok {
		return rate
	}
	return decimal.Zero
}

// QuoteLine is one priced item
type QuoteLine struct {
	ProductID            int64
	Quantity             int
	UnitPrice            decimal.Decimal
	RequiresPrescription bool
}

// Quote is the price of an order at one pharmacy. DeliveryFee is reported
// alongside Total and is not part of it.
type Quote struct {
	Subtotal     decimal.Decimal
	DiscountRate decimal.Decimal
	DeliveryFee  int64
	Total        decimal.Decimal
	Lines        []QuoteLine
}

// RequiresPrescription reports whether any line needs a prescription
func (q *Quote) RequiresPrescription() bool {
	for _, line := range q.Lines {
		if line.RequiresPrescription {
			return true
		}
	}
	return false
}

// OrderItems converts the priced lines into order items for orderID
func (q *Quote) OrderItems(orderID int64) []entity.OrderItem {
	items := make([]entity.OrderItem, 0, len(q.Lines))
	for _, line := range q.Lines {
		items = append(items, entity.OrderItem{
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
	}
	return items
}

type OrderPricer interface {
	Quote(ctx context.Context, candidate *Candidate, items []entity.LineItem, insurance string) (*Quote, error)
}

type orderPricer struct {
	productRepo repository.ProductRepository
}

func NewOrderPricer(productRepo repository.ProductRepository) OrderPricer {
	return &orderPricer{productRepo: productRepo}
}

func (p *orderPricer) Quote(ctx context.Context, candidate *Candidate, items []entity.LineItem, insurance string) (*Quote, error) {
	quote := &Quote{
		Subtotal: decimal.Zero,
		Lines:    make([]QuoteLine, 0, len(items)),
	}

	for _, item := range items {
		product, err := p.productRepo.FindByIDAndPharmacy(ctx, item.ProductID, candidate.Pharmacy.ID)
		if err != nil {
			return nil, fmt.Errorf("load product %d: %w", item.ProductID, err)
		}
		if product == nil {
			return nil, fmt.Errorf("product %d at pharmacy %d: %w", item.ProductID, candidate.Pharmacy.ID, ErrProductNotAtPharmacy)
		}

		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID:            item.ProductID,
			Quantity:             item.Quantity,
			UnitPrice:            product.Price,
			RequiresPrescription: product.RequiresPrescription,
		})
		quote.Subtotal = quote.Subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	quote.DiscountRate = DiscountRate(insurance)
	quote.Total = quote.Subtotal.Mul(decimal.NewFromInt(1).Sub(quote.DiscountRate)).Round(2)
	quote.DeliveryFee = geo.DeliveryFee(candidate.DistanceKm)

	return quote, nil
}
