package client

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
)

// Defaults of every paginated store.
const (
	DefaultPage        = 1
	DefaultRowsPerPage = 10
	DefaultSortBy      = "created_at"
)

// Pagination mirrors the server side paging of a collection.
type Pagination struct {
	Page        int
	RowsPerPage int
	// RowsNumber is the total number of records on the server.
	RowsNumber int
	SortBy     string
	Descending bool
}

func DefaultPagination() Pagination {
	return Pagination{Page: DefaultPage, RowsPerPage: DefaultRowsPerPage, SortBy: DefaultSortBy, Descending: true}
}

// Filter is an additional equality constraint sent with a list query.
type Filter struct {
	Key   string
	Value string
}

// Where creates a filter; an empty value is not sent.
func Where(key, value string) Filter {
	return Filter{Key: key, Value: value}
}

// listQuery encodes the list contract: search, page, itemsPerPage and sortBy[0].
func listQuery(p Pagination, search string, filters ...Filter) url.Values {
	query := url.Values{}
	query.Set("search", search)
	query.Set("page", strconv.Itoa(p.Page))
	query.Set("itemsPerPage", strconv.Itoa(p.RowsPerPage))
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	order := "asc"
	if p.Descending {
		order = "desc"
	}
	query.Set("sortBy[0][key]", sortBy)
	query.Set("sortBy[0][order]", order)
	for _, filter := range filters {
		if filter.Value == "" {
			continue
		}
		query.Set(filter.Key, filter.Value)
	}
	return query
}

// Envelope is the list response; a bare JSON array is accepted as well.
type Envelope[T any] struct {
	Data    []T `json:"data"`
	Total   int `json:"total"`
	PerPage int `json:"per_page"`
}

func (e *Envelope[T]) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &e.Data); err != nil {
			return err
		}
		e.Total = len(e.Data)
		return nil
	}
	var aux struct {
		Data    json.RawMessage `json:"data"`
		Total   json.Number     `json:"total"`
		PerPage json.Number     `json:"per_page"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Data = nil
	if len(aux.Data) > 0 && !bytes.Equal(aux.Data, []byte("null")) {
		if err := json.Unmarshal(aux.Data, &e.Data); err != nil {
			return err
		}
	}
	if aux.Total != "" {
		total, _ := aux.Total.Int64()
		e.Total = int(total)
	} else {
		e.Total = len(e.Data)
	}
	if aux.PerPage != "" {
		perPage, _ := aux.PerPage.Int64()
		e.PerPage = int(perPage)
	}
	return nil
}

// Single decodes a record returned either bare or wrapped in {"data": ...}.
type Single[T any] struct {
	Value T
}

func (s *Single[T]) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err == nil {
		_, hasID := probe["id"]
		if inner, ok := probe["data"]; ok && !hasID {
			return json.Unmarshal(inner, &s.Value)
		}
	}
	return json.Unmarshal(data, &s.Value)
}
