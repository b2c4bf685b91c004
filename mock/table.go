package mock

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/AndreasSchmid1988/workpro-frontend/internal/collection"
)

// Query parameters that are not record filters.
var reserved = map[string]bool{
	"search":           true,
	"page":             true,
	"itemsPerPage":     true,
	"per_page":         true,
	"sortBy[0][key]":   true,
	"sortBy[0][order]": true,
}

type table struct {
	name        string
	required    []string
	statusField string
	parentField string

	nextID  atomic.Int64
	mu      sync.Mutex
	records *collection.SyncMap[string, map[string]any]
}

type tableOption func(*table)

func withRequired(fields ...string) tableOption {
	return func(t *table) { t.required = fields }
}

// withStatusField maps the "status" filter to field.
func withStatusField(field string) tableOption {
	return func(t *table) { t.statusField = field }
}

func withParent(field string) tableOption {
	return func(t *table) { t.parentField = field }
}

func newTable(name string, options ...tableOption) *table {
	ret := &table{name: name, records: collection.NewSyncMap[string, map[string]any]()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func idOf(record map[string]any) string {
	return fmt.Sprint(record["id"])
}

// missing returns the required fields absent from values.
func (t *table) missing(values map[string]any) map[string][]string {
	var ret map[string][]string
	for _, field := range t.required {
		if value, ok := values[field]; ok && value != nil && value != "" {
			continue
		}
		if ret == nil {
			ret = map[string][]string{}
		}
		ret[field] = []string{fmt.Sprintf("The %s field is required.", strings.ReplaceAll(field, "_", " "))}
	}
	return ret
}

func (t *table) insert(values map[string]any) map[string]any {
	record := make(map[string]any, len(values)+4)
	for k, v := range values {
		record[k] = v
	}
	record["id"] = int(t.nextID.Add(1))
	if _, ok := record["uuid"]; !ok {
		record["uuid"] = uuid.NewString()
	}
	record["created_at"] = now()
	record["updated_at"] = record["created_at"]
	t.records.Put(idOf(record), record)
	return record
}

func (t *table) get(id string) (map[string]any, bool) {
	return t.records.Get(id)
}

// update merges values into a copy of the record; id and created_at are kept.
func (t *table) update(id string, values map[string]any) (map[string]any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	current, ok := t.records.Get(id)
	if !ok {
		return nil, false
	}
	record := make(map[string]any, len(current)+len(values))
	for k, v := range current {
		record[k] = v
	}
	for k, v := range values {
		switch k {
		case "id", "created_at":
			continue
		}
		record[k] = v
	}
	record["updated_at"] = now()
	t.records.Put(id, record)
	return record, true
}

func (t *table) delete(id string) bool {
	return t.records.Delete(id)
}

// page is one result of list.
type page struct {
	records []map[string]any
	total   int
	perPage int
	current int
}

// list applies fixed and query filters, search, sorting and paging.
func (t *table) list(query map[string][]string, fixed map[string]string) page {
	get := func(key string) string {
		if values := query[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	filters := map[string]string{}
	for key, values := range query {
		if reserved[key] || len(values) == 0 || values[0] == "" {
			continue
		}
		if key == "status" && t.statusField != "" {
			key = t.statusField
		}
		filters[key] = values[0]
	}
	for key, value := range fixed {
		filters[key] = value
	}
	search := strings.ToLower(get("search"))

	var matched []map[string]any
	t.records.Range(func(_ string, record map[string]any) bool {
		for key, value := range filters {
			if fmt.Sprint(record[key]) != value {
				return true
			}
		}
		if search != "" && !contains(record, search) {
			return true
		}
		matched = append(matched, record)
		return true
	})

	sortKey := get("sortBy[0][key]")
	if sortKey == "" {
		sortKey = "id"
	}
	descending := get("sortBy[0][order]") == "desc"
	// ties are ordered by id in the requested direction
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if descending {
			a, b = b, a
		}
		switch {
		case less(a[sortKey], b[sortKey]):
			return true
		case less(b[sortKey], a[sortKey]):
			return false
		}
		return less(a["id"], b["id"])
	})

	perPage, _ := strconv.Atoi(get("itemsPerPage"))
	if value, err := strconv.Atoi(get("per_page")); err == nil {
		perPage = value
	}
	current, _ := strconv.Atoi(get("page"))
	if current < 1 {
		current = 1
	}
	ret := page{total: len(matched), perPage: perPage, current: current}
	if perPage <= 0 {
		ret.records = matched
		ret.perPage = len(matched)
		return ret
	}
	start := (current - 1) * perPage
	if start >= len(matched) {
		ret.records = []map[string]any{}
		return ret
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}
	ret.records = matched[start:end]
	return ret
}

func contains(record map[string]any, term string) bool {
	for _, value := range record {
		if s, ok := value.(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func less(a, b any) bool {
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return x < y
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func number(v any) (float64, bool) {
	switch actual := v.(type) {
	case int:
		return float64(actual), true
	case int64:
		return float64(actual), true
	case float64:
		return actual, true
	case string:
		f, err := strconv.ParseFloat(actual, 64)
		return f, err == nil
	}
	return 0, false
}
