package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLeads(env *testEnv, n int) []string {
	return env.server.Seed("leads", n, func(i int) map[string]any {
		return map[string]any{"leads_number": fmt.Sprintf("L-%03d", i), "lead_type": "web", "lead_count": i}
	})
}

func TestCollection_FetchList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedLeads(env, 25)
	leads := NewLeads(env.client)

	leads.SetPage(1, 10)
	items, err := leads.FetchList(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 10)
	assert.Equal(t, 25, leads.Pagination().RowsNumber)
	assert.Equal(t, 10, leads.Pagination().RowsPerPage)
	// newest first by default
	assert.Equal(t, "L-024", items[0].LeadsNumber)

	leads.SetPage(3, 10)
	leads.SetSort("leads_number", false)
	items, err = leads.FetchList(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "L-020", items[0].LeadsNumber)
	assert.Equal(t, items, leads.Items())

	leads.SetPage(1, 10)
	leads.SetSearch("l-00")
	items, err = leads.FetchList(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 10)
	assert.Equal(t, 10, leads.Pagination().RowsNumber)
	assert.False(t, leads.Loading())
}

func TestCollection_CreateAndFetchOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	products := NewProducts(env.client)

	created, err := products.Create(ctx, Product{Name: "Widget", Description: "Blue", DefaultPrice: 9.5, PriceType: "fixed"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := products.FetchOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", fetched.Name)
	assert.Equal(t, "Blue", fetched.Description)
	assert.Equal(t, 9.5, fetched.DefaultPrice)
	assert.Equal(t, "fixed", fetched.PriceType)

	current, ok := products.Current()
	require.True(t, ok)
	assert.Equal(t, created.ID, current.ID)
	_, ok = products.Find(created.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, products.Pagination().RowsNumber)
	assert.Equal(t, []string{"positive:messages.productSaved"}, env.notifier.messages())
}

func TestCollection_CreateValidationFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	products := NewProducts(env.client)

	_, err := products.Create(ctx, Product{Description: "no name"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.NotEmpty(t, apiErr.FieldError("name"))

	assert.Empty(t, products.Items())
	_, ok := products.Current()
	assert.False(t, ok)
	assert.Equal(t, []string{"negative:messages.errorCreatingProduct"}, env.notifier.messages())
}

func TestCollection_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ids := seedLeads(env, 3)
	leads := NewLeads(env.client)
	_, err := leads.FetchList(ctx)
	require.NoError(t, err)

	updated, err := leads.Update(ctx, ID(ids[1]), map[string]any{"lead_type": "phone"})
	require.NoError(t, err)
	assert.Equal(t, "phone", updated.LeadType)
	local, ok := leads.Find(ID(ids[1]))
	require.True(t, ok)
	assert.Equal(t, "phone", local.LeadType)

	_, err = leads.Update(ctx, "404", map[string]any{"lead_type": "phone"})
	assert.True(t, errors.Is(err, ErrRequest))
	assert.Equal(t, []string{"positive:messages.leadSaved", "negative:messages.errorUpdatingLead"}, env.notifier.messages())
}

func TestCollection_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ids := seedLeads(env, 3)
	leads := NewLeads(env.client)
	_, err := leads.FetchList(ctx)
	require.NoError(t, err)
	_, err = leads.FetchOne(ctx, ID(ids[0]))
	require.NoError(t, err)

	require.NoError(t, leads.Delete(ctx, ID(ids[0])))
	assert.Len(t, leads.Items(), 2)
	assert.Equal(t, 2, leads.Pagination().RowsNumber)
	_, ok := leads.Current()
	assert.False(t, ok)
	assert.Equal(t, 2, env.server.Len("leads"))

	// a failed delete keeps the local state
	err = leads.Delete(ctx, ID(ids[0]))
	assert.True(t, errors.Is(err, ErrRequest))
	assert.Len(t, leads.Items(), 2)
}

func TestCollection_FailureKeepsState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedLeads(env, 4)
	leads := NewLeads(env.client)
	_, err := leads.FetchList(ctx)
	require.NoError(t, err)

	env.server.Close()
	_, err = leads.FetchList(ctx)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Len(t, leads.Items(), 4)
	assert.Equal(t, 4, leads.Pagination().RowsNumber)
}

func TestCollection_Reset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedLeads(env, 2)
	leads := NewLeads(env.client)
	leads.SetSearch("x")
	leads.SetSearch("")
	_, err := leads.FetchList(ctx)
	require.NoError(t, err)

	leads.Reset()
	assert.Empty(t, leads.Items())
	assert.Equal(t, DefaultPagination(), leads.Pagination())
	assert.Equal(t, "", leads.Search())
}

func TestCollection_LoadingWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan int)
	c := newHandlerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		status := <-release
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"data":[{"id":1,"leads_number":"L-001"}],"total":1,"per_page":10}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	leads := NewLeads(c)

	testCases := []struct {
		name   string
		status int
	}{
		{name: "success", status: http.StatusOK},
		{name: "failure", status: http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, leads.Loading())
			done := make(chan error, 1)
			go func() {
				_, err := leads.FetchList(context.Background())
				done <- err
			}()
			<-entered
			assert.True(t, leads.Loading())
			release <- tc.status
			err := <-done
			assert.False(t, leads.Loading())
			if tc.status == http.StatusOK {
				require.NoError(t, err)
				assert.Len(t, leads.Items(), 1)
				return
			}
			assert.True(t, errors.Is(err, ErrServer))
			assert.Len(t, leads.Items(), 1)
		})
	}
}
