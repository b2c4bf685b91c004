package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery(t *testing.T) {
	p := Pagination{Page: 2, RowsPerPage: 25, SortBy: "name", Descending: false}
	query := listQuery(p, "acme", Where("status", "sent"), Where("empty", ""))
	assert.Equal(t, "acme", query.Get("search"))
	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "25", query.Get("itemsPerPage"))
	assert.Equal(t, "name", query.Get("sortBy[0][key]"))
	assert.Equal(t, "asc", query.Get("sortBy[0][order]"))
	assert.Equal(t, "sent", query.Get("status"))
	_, ok := query["empty"]
	assert.False(t, ok)

	query = listQuery(DefaultPagination(), "")
	assert.Equal(t, DefaultSortBy, query.Get("sortBy[0][key]"))
	assert.Equal(t, "desc", query.Get("sortBy[0][order]"))

	query = listQuery(Pagination{Page: 1, RowsPerPage: 10}, "")
	assert.Equal(t, "id", query.Get("sortBy[0][key]"))
}

func TestEnvelope_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		ids         []ID
		total       int
		perPage     int
	}{
		{description: "envelope", input: `{"data":[{"id":1},{"id":"2"}],"total":25,"per_page":10}`, ids: []ID{"1", "2"}, total: 25, perPage: 10},
		{description: "string numbers", input: `{"data":[{"id":3}],"total":"7","per_page":"5"}`, ids: []ID{"3"}, total: 7, perPage: 5},
		{description: "bare array", input: `[{"id":1},{"id":2},{"id":3}]`, ids: []ID{"1", "2", "3"}, total: 3},
		{description: "missing total", input: `{"data":[{"id":9}]}`, ids: []ID{"9"}, total: 1},
		{description: "null data", input: `{"data":null,"total":0}`, total: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			var envelope Envelope[Lead]
			require.NoError(t, json.Unmarshal([]byte(tc.input), &envelope))
			var ids []ID
			for _, item := range envelope.Data {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tc.ids, ids)
			assert.Equal(t, tc.total, envelope.Total)
			assert.Equal(t, tc.perPage, envelope.PerPage)
		})
	}
}

func TestSingle_UnmarshalJSON(t *testing.T) {
	var wrapped Single[Product]
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"id":4,"name":"Widget"}}`), &wrapped))
	assert.Equal(t, Product{ID: "4", Name: "Widget"}, wrapped.Value)

	var bare Single[Product]
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"name":"Gadget","data":"ignored"}`), &bare))
	assert.Equal(t, Product{ID: "5", Name: "Gadget"}, bare.Value)
}

func TestID_UnmarshalJSON(t *testing.T) {
	var record struct {
		ID ID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id":12}`), &record))
	assert.Equal(t, ID("12"), record.ID)
	require.NoError(t, json.Unmarshal([]byte(`{"id":"ab-1"}`), &record))
	assert.Equal(t, ID("ab-1"), record.ID)
	require.NoError(t, json.Unmarshal([]byte(`{"id":null}`), &record))
	assert.Equal(t, ID(""), record.ID)
	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &record))
	assert.Equal(t, ID("7"), IntID(7))
}
