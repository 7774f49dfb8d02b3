package billing

import (
	"context"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v84"
)

const (
	metadataProductTier = "tier"
	metadataProductApp  = "app"
	productApp          = "daygo"
)

// EnsureCatalog makes sure a product and a recurring monthly price exist in
// Stripe for every paid tier, creating missing ones. IDs are cached on the
// tier definitions for checkout.
func (b *Billing) EnsureCatalog(ctx context.Context) error {
	products, err := b.listActiveProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	prices, err := b.listActivePrices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list prices: %w", err)
	}

	for _, tierID := range TierOrder {
		tier := Tiers[tierID]
		if err := b.ensureTier(ctx, tier, products, prices); err != nil {
			return fmt.Errorf("failed to ensure tier %s: %w", tierID, err)
		}
		log.Printf("Stripe tier ready: %s (product=%s, price=%s)", tierID, tier.ProductID, tier.PriceID)
	}

	return nil
}

func (b *Billing) listActiveProducts(ctx context.Context) ([]*stripe.Product, error) {
	var products []*stripe.Product
	for p, err := range b.sc.V1Products.List(ctx, &stripe.ProductListParams{Active: stripe.Bool(true)}) {
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (b *Billing) listActivePrices(ctx context.Context) ([]*stripe.Price, error) {
	var prices []*stripe.Price
	for p, err := range b.sc.V1Prices.List(ctx, &stripe.PriceListParams{Active: stripe.Bool(true)}) {
		if err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, nil
}

func (b *Billing) ensureTier(ctx context.Context, tier *SubscriptionTier, products []*stripe.Product, prices []*stripe.Price) error {
	productID := findProduct(products, tier.ID)
	if productID == "" {
		var err error
		if productID, err = b.createProduct(ctx, tier); err != nil {
			return err
		}
	}
	tier.ProductID = productID

	priceID := findPrice(prices, productID)
	if priceID == "" {
		var err error
		if priceID, err = b.createPrice(ctx, tier, productID); err != nil {
			return err
		}
	}
	tier.PriceID = priceID

	return nil
}

func findProduct(products []*stripe.Product, tierID Tier) string {
	for _, p := range products {
		if p.Metadata[metadataProductTier] == string(tierID) && p.Metadata[metadataProductApp] == productApp {
			return p.ID
		}
	}
	return ""
}

func findPrice(prices []*stripe.Price, productID string) string {
	for _, p := range prices {
		if p.Product != nil && p.Product.ID == productID && p.Recurring != nil {
			return p.ID
		}
	}
	return ""
}

func (b *Billing) createProduct(ctx context.Context, tier *SubscriptionTier) (string, error) {
	params := &stripe.ProductCreateParams{
		Name:        stripe.String(fmt.Sprintf("Daygo %s", tier.DisplayName)),
		Description: stripe.String(tier.Description),
		Metadata: map[string]string{
			metadataProductTier: string(tier.ID),
			metadataProductApp:  productApp,
		},
	}
	product, err := b.sc.V1Products.Create(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	return product.ID, nil
}

func (b *Billing) createPrice(ctx context.Context, tier *SubscriptionTier, productID string) (string, error) {
	params := &stripe.PriceCreateParams{
		Product:    stripe.String(productID),
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		UnitAmount: stripe.Int64(tier.MonthlyPriceCents),
		Recurring: &stripe.PriceCreateRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
		Metadata: map[string]string{
			metadataProductTier: string(tier.ID),
		},
	}
	price, err := b.sc.V1Prices.Create(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create price: %w", err)
	}
	return price.ID, nil
}
