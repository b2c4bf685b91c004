package client

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
)

// Offer statuses reported by /offers/statuses.
var OfferStatuses = []string{"draft", "sent", "accepted", "declined"}

// Offers is the store of /offers, including offer line items.
type Offers struct {
	*Collection[Offer]
	counts *statusCounts

	productsMu     sync.RWMutex
	products       []OfferProduct
	productLoading atomic.Int32
}

func NewOffers(c *Client) *Offers {
	return &Offers{
		Collection: NewCollection[Offer](c, "/offers", "offer"),
		counts:     newStatusCounts(OfferStatuses...),
	}
}

// FetchByStatus lists offers with the given status; "all" lists every offer.
func (o *Offers) FetchByStatus(ctx context.Context, status string) ([]Offer, error) {
	return o.FetchList(ctx, statusFilter(status)...)
}

func (o *Offers) FetchStatusCounts(ctx context.Context) (map[string]int, error) {
	defer o.begin()()
	return o.counts.fetch(ctx, o.client, o.path+"/statuses")
}

func (o *Offers) StatusCounts() map[string]int {
	return o.counts.snapshot()
}

// FetchProducts loads the line items of offerID.
func (o *Offers) FetchProducts(ctx context.Context, offerID ID) ([]OfferProduct, error) {
	defer o.beginProduct()()
	return o.fetchProducts(ctx, offerID)
}

func (o *Offers) fetchProducts(ctx context.Context, offerID ID) ([]OfferProduct, error) {
	envelope, err := send[Envelope[OfferProduct]](ctx, o.client, &request{method: http.MethodGet, path: o.productsPath(offerID)})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to fetch offer products", zap.String("offer", offerID.String()), zap.Error(err))
		return nil, err
	}
	o.productsMu.Lock()
	o.products = envelope.Data
	o.productsMu.Unlock()
	return o.Products(), nil
}

// AddProduct adds quantity of productID to the offer and reloads its line items.
func (o *Offers) AddProduct(ctx context.Context, offerID, productID ID, quantity int) error {
	defer o.beginProduct()()
	payload := map[string]any{"offer_id": offerID.String(), "product_id": productID.String(), "quantity": quantity}
	if _, err := send[struct{}](ctx, o.client, &request{method: http.MethodPost, path: o.productsPath(offerID), body: payload}); err != nil {
		logger.Log(ctx).Error(ctx, "failed to add offer product", zap.String("offer", offerID.String()), zap.Error(err))
		return err
	}
	_, err := o.fetchProducts(ctx, offerID)
	return err
}

// UpdateProduct changes the quantity of a line item and reloads the line items.
func (o *Offers) UpdateProduct(ctx context.Context, offerID, itemID ID, quantity int) error {
	defer o.beginProduct()()
	payload := map[string]any{"quantity": quantity}
	if _, err := send[struct{}](ctx, o.client, &request{method: http.MethodPut, path: o.productPath(offerID, itemID), body: payload}); err != nil {
		logger.Log(ctx).Error(ctx, "failed to update offer product", zap.String("offer", offerID.String()), zap.Error(err))
		return err
	}
	_, err := o.fetchProducts(ctx, offerID)
	return err
}

// DeleteProduct removes a line item and reloads the line items.
func (o *Offers) DeleteProduct(ctx context.Context, offerID, itemID ID) error {
	defer o.beginProduct()()
	if _, err := send[struct{}](ctx, o.client, &request{method: http.MethodDelete, path: o.productPath(offerID, itemID)}); err != nil {
		logger.Log(ctx).Error(ctx, "failed to delete offer product", zap.String("offer", offerID.String()), zap.Error(err))
		return err
	}
	_, err := o.fetchProducts(ctx, offerID)
	return err
}

func (o *Offers) Products() []OfferProduct {
	o.productsMu.RLock()
	defer o.productsMu.RUnlock()
	return append([]OfferProduct(nil), o.products...)
}

func (o *Offers) ProductLoading() bool {
	return o.productLoading.Load() > 0
}

func (o *Offers) Reset() {
	o.Collection.Reset()
	o.counts.reset()
	o.productsMu.Lock()
	o.products = nil
	o.productsMu.Unlock()
}

func (o *Offers) productsPath(offerID ID) string {
	return o.path + "/" + url.PathEscape(offerID.String()) + "/products"
}

func (o *Offers) productPath(offerID, itemID ID) string {
	return o.productsPath(offerID) + "/" + url.PathEscape(itemID.String())
}

func (o *Offers) beginProduct() func() {
	o.productLoading.Add(1)
	return func() { o.productLoading.Add(-1) }
}
