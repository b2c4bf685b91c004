package cli

import (
	"context"
	"fmt"
	"sort"

	workpro "github.com/AndreasSchmid1988/workpro-frontend"
	"github.com/AndreasSchmid1988/workpro-frontend/client"
)

// resource adapts a typed collection to the untyped commands.
type resource struct {
	list       func(ctx context.Context, filters ...client.Filter) (any, error)
	get        func(ctx context.Context, id client.ID) (any, error)
	delete     func(ctx context.Context, id client.ID) error
	pagination func() client.Pagination
	configure  func(p client.Pagination, search string)
}

func newResource[T client.Record](c *client.Collection[T], list func(ctx context.Context, filters ...client.Filter) ([]T, error)) *resource {
	if list == nil {
		list = c.FetchList
	}
	return &resource{
		list: func(ctx context.Context, filters ...client.Filter) (any, error) {
			return list(ctx, filters...)
		},
		get: func(ctx context.Context, id client.ID) (any, error) {
			return c.FetchOne(ctx, id)
		},
		delete:     c.Delete,
		pagination: c.Pagination,
		configure: func(p client.Pagination, search string) {
			c.SetPagination(p)
			c.SetSearch(search)
		},
	}
}

func resources(cli *workpro.Client) map[string]*resource {
	return map[string]*resource{
		"leads":          newResource(cli.Leads.Collection, nil),
		"offers":         newResource(cli.Offers.Collection, nil),
		"invoices":       newResource(cli.Invoices.Collection, nil),
		"users":          newResource(cli.Users.Collection, nil),
		"products":       newResource(cli.Products.Collection, cli.Products.FetchList),
		"feature-groups": newResource(cli.FeatureGroups.Collection, nil),
		"notifications":  newResource(cli.Notifications.Collection, nil),
	}
}

func lookup(cli *workpro.Client, name string) (*resource, error) {
	all := resources(cli)
	if ret, ok := all[name]; ok {
		return ret, nil
	}
	var names []string
	for k := range all {
		names = append(names, k)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown resource %q, expected one of %v", name, names)
}
