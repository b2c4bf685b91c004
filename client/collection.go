package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
)

const (
	ErrorFetchList = "failed to fetch list"
	ErrorFetchOne  = "failed to fetch record"
	ErrorCreate    = "failed to create record"
	ErrorUpdate    = "failed to update record"
	ErrorDelete    = "failed to delete record"
)

// Collection is a paginated, server backed list of records with a current
// record. It is safe for concurrent use.
type Collection[T Record] struct {
	client *Client
	path   string
	name   string

	mu         sync.RWMutex
	items      []T
	current    *T
	pagination Pagination
	search     string

	loading atomic.Int32
}

// NewCollection creates a collection for the resource at path (relative to
// APIPrefix); name is used in notification keys.
func NewCollection[T Record](client *Client, path, name string) *Collection[T] {
	return &Collection[T]{
		client:     client,
		path:       APIPrefix + path,
		name:       name,
		pagination: DefaultPagination(),
	}
}

// FetchList replaces the local items with the page described by the current
// pagination, search term and filters.
func (c *Collection[T]) FetchList(ctx context.Context, filters ...Filter) ([]T, error) {
	return c.fetchList(ctx, c.path, filters...)
}

func (c *Collection[T]) fetchList(ctx context.Context, path string, filters ...Filter) ([]T, error) {
	defer c.begin()()
	query := listQuery(c.Pagination(), c.Search(), filters...)
	logger.Log(ctx).Debug(ctx, "fetching list", zap.String("resource", c.name), zap.String("query", query.Encode()))

	envelope, err := send[Envelope[T]](ctx, c.client, &request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFetchList, zap.String("resource", c.name), zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = envelope.Data
	if c.items == nil {
		c.items = []T{}
	}
	c.pagination.RowsNumber = envelope.Total
	if envelope.PerPage > 0 {
		c.pagination.RowsPerPage = envelope.PerPage
	}
	return append([]T(nil), c.items...), nil
}

// FetchOne loads a single record and makes it current.
func (c *Collection[T]) FetchOne(ctx context.Context, id ID) (*T, error) {
	defer c.begin()()
	single, err := send[Single[T]](ctx, c.client, &request{method: http.MethodGet, path: c.itemPath(id)})
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFetchOne, zap.String("resource", c.name), zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}
	record := single.Value
	c.setCurrent(record)
	return &record, nil
}

// Create posts payload; the confirmed record is appended and made current.
func (c *Collection[T]) Create(ctx context.Context, payload any) (*T, error) {
	defer c.begin()()
	single, err := send[Single[T]](ctx, c.client, &request{method: http.MethodPost, path: c.path, body: payload})
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorCreate, zap.String("resource", c.name), zap.Error(err))
		c.client.notifyFailure(ctx, "messages.errorCreating"+c.title(), err)
		return nil, err
	}
	record := single.Value
	c.add(record)
	c.client.notifySuccess(ctx, "messages."+c.name+"Saved")
	return &record, nil
}

// Update puts payload; the confirmed record replaces the local one.
func (c *Collection[T]) Update(ctx context.Context, id ID, payload any) (*T, error) {
	defer c.begin()()
	single, err := send[Single[T]](ctx, c.client, &request{method: http.MethodPut, path: c.itemPath(id), body: payload})
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorUpdate, zap.String("resource", c.name), zap.String("id", id.String()), zap.Error(err))
		c.client.notifyFailure(ctx, "messages.errorUpdating"+c.title(), err)
		return nil, err
	}
	record := single.Value
	if record.RecordID() == "" {
		// acknowledged without the record
		refreshed, err := send[Single[T]](ctx, c.client, &request{method: http.MethodGet, path: c.itemPath(id)})
		if err != nil {
			logger.Log(ctx).Error(ctx, ErrorFetchOne, zap.String("resource", c.name), zap.String("id", id.String()), zap.Error(err))
			return nil, err
		}
		record = refreshed.Value
	}
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].RecordID() == id {
			c.items[i] = record
		}
	}
	c.current = &record
	c.mu.Unlock()

	c.client.notifySuccess(ctx, "messages."+c.name+"Saved")
	return &record, nil
}

// Delete removes the record on the server, then locally.
func (c *Collection[T]) Delete(ctx context.Context, id ID) error {
	defer c.begin()()
	if _, err := send[struct{}](ctx, c.client, &request{method: http.MethodDelete, path: c.itemPath(id)}); err != nil {
		logger.Log(ctx).Error(ctx, ErrorDelete, zap.String("resource", c.name), zap.String("id", id.String()), zap.Error(err))
		c.client.notifyFailure(ctx, "messages.errorDeleting"+c.title(), err)
		return err
	}

	c.mu.Lock()
	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if item.RecordID() == id {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept
	if c.pagination.RowsNumber >= removed {
		c.pagination.RowsNumber -= removed
	}
	if c.current != nil && (*c.current).RecordID() == id {
		c.current = nil
	}
	c.mu.Unlock()

	c.client.notifySuccess(ctx, "messages."+c.name+"Deleted")
	return nil
}

// Loading reports whether any operation is in flight.
func (c *Collection[T]) Loading() bool {
	return c.loading.Load() > 0
}

func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

func (c *Collection[T]) Current() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		var zero T
		return zero, false
	}
	return *c.current, true
}

// Find returns a locally held record.
func (c *Collection[T]) Find(id ID) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Pagination() Pagination {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pagination
}

func (c *Collection[T]) SetPagination(p Pagination) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pagination = p
}

func (c *Collection[T]) SetPage(page, rowsPerPage int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pagination.Page = page
	c.pagination.RowsPerPage = rowsPerPage
}

func (c *Collection[T]) SetSort(key string, descending bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pagination.SortBy = key
	c.pagination.Descending = descending
}

func (c *Collection[T]) Search() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.search
}

func (c *Collection[T]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

// Reset restores the initial state.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.current = nil
	c.search = ""
	c.pagination = DefaultPagination()
}

// add appends a confirmed record and makes it current.
func (c *Collection[T]) add(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, record)
	c.pagination.RowsNumber++
	c.current = &record
}

func (c *Collection[T]) setCurrent(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = &record
}

func (c *Collection[T]) itemPath(id ID) string {
	return c.path + "/" + url.PathEscape(id.String())
}

func (c *Collection[T]) begin() func() {
	c.loading.Add(1)
	return func() { c.loading.Add(-1) }
}

func (c *Collection[T]) title() string {
	if c.name == "" {
		return ""
	}
	return strings.ToUpper(c.name[:1]) + c.name[1:]
}
