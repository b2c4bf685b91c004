package client

import (
	"context"
	"net/url"
	"strconv"
	"sync"
)

// DefaultProductsPerPage is the page size of product lists.
const DefaultProductsPerPage = 100

// Products is the store of /products.
type Products struct {
	*Collection[Product]
}

func NewProducts(c *Client) *Products {
	ret := &Products{Collection: NewCollection[Product](c, "/products", "product")}
	ret.resetPagination()
	return ret
}

// FetchList loads products, sending per_page along with the list query.
func (p *Products) FetchList(ctx context.Context, filters ...Filter) ([]Product, error) {
	perPage := strconv.Itoa(p.Pagination().RowsPerPage)
	query := append(append(make([]Filter, 0, len(filters)+1), filters...), Where("per_page", perPage))
	return p.Collection.FetchList(ctx, query...)
}

func (p *Products) Reset() {
	p.Collection.Reset()
	p.resetPagination()
}

func (p *Products) resetPagination() {
	pagination := DefaultPagination()
	pagination.RowsPerPage = DefaultProductsPerPage
	p.SetPagination(pagination)
}

// PriceTiers holds the price tiers of one product at a time.
type PriceTiers struct {
	client *Client

	mu        sync.Mutex
	productID ID
	tiers     *Collection[PriceTier]
}

func NewPriceTiers(c *Client) *PriceTiers {
	return &PriceTiers{client: c}
}

// For returns the tier collection of productID, replacing the one of a
// previously selected product.
func (p *PriceTiers) For(productID ID) *Collection[PriceTier] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tiers == nil || p.productID != productID {
		p.productID = productID
		p.tiers = NewCollection[PriceTier](p.client, "/products/"+url.PathEscape(productID.String())+"/price-tiers", "priceTier")
	}
	return p.tiers
}

func (p *PriceTiers) Fetch(ctx context.Context, productID ID) ([]PriceTier, error) {
	return p.For(productID).FetchList(ctx)
}

func (p *PriceTiers) Create(ctx context.Context, productID ID, tier PriceTier) (*PriceTier, error) {
	return p.For(productID).Create(ctx, map[string]any{"min_quantity": tier.MinQuantity, "price": tier.Price})
}

func (p *PriceTiers) Update(ctx context.Context, productID, tierID ID, tier PriceTier) (*PriceTier, error) {
	return p.For(productID).Update(ctx, tierID, map[string]any{"min_quantity": tier.MinQuantity, "price": tier.Price})
}

func (p *PriceTiers) Delete(ctx context.Context, productID, tierID ID) error {
	return p.For(productID).Delete(ctx, tierID)
}

func (p *PriceTiers) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.productID = ""
	p.tiers = nil
}

// FeatureGroups is the store of /feature-groups.
type FeatureGroups struct {
	*Collection[FeatureGroup]
}

func NewFeatureGroups(c *Client) *FeatureGroups {
	return &FeatureGroups{Collection: NewCollection[FeatureGroup](c, "/feature-groups", "featureGroup")}
}

func (f *FeatureGroups) CreateGroup(ctx context.Context, name string, sortOrder int) (*FeatureGroup, error) {
	return f.Create(ctx, FeatureGroup{Name: name, SortOrder: sortOrder})
}

func (f *FeatureGroups) UpdateGroup(ctx context.Context, id ID, name string, sortOrder int) (*FeatureGroup, error) {
	return f.Update(ctx, id, FeatureGroup{Name: name, SortOrder: sortOrder})
}
