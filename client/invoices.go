package client

import "context"

// Invoice statuses reported by /invoices/statuses.
var InvoiceStatuses = []string{"draft", "sent", "paid", "overdue", "cancelled"}

// Invoices is the store of /invoices.
type Invoices struct {
	*Collection[Invoice]
	counts *statusCounts
}

func NewInvoices(c *Client) *Invoices {
	return &Invoices{
		Collection: NewCollection[Invoice](c, "/invoices", "invoice"),
		counts:     newStatusCounts(InvoiceStatuses...),
	}
}

// FetchByStatus lists invoices with the given status; "all" lists every invoice.
func (i *Invoices) FetchByStatus(ctx context.Context, status string) ([]Invoice, error) {
	return i.FetchList(ctx, statusFilter(status)...)
}

func (i *Invoices) FetchStatusCounts(ctx context.Context) (map[string]int, error) {
	defer i.begin()()
	return i.counts.fetch(ctx, i.client, i.path+"/statuses")
}

func (i *Invoices) StatusCounts() map[string]int {
	return i.counts.snapshot()
}

func (i *Invoices) Reset() {
	i.Collection.Reset()
	i.counts.reset()
}
