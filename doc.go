// Package workpro wires the client side state of the workpro admin API.
//
// New builds, from a config.Config, the token store (memory, file or redis),
// the OAuth2 authenticator, the round tripper that attaches the bearer token
// and refreshes it once on 401, and the domain stores (leads, offers,
// invoices, products, users, files, chats, notifications, reporting and the
// account).
//
// Example:
//
//	cfg, _ := config.Load("")
//	cli, _ := workpro.New(ctx, cfg)
//	if _, err := cli.Login(ctx, "jane@example.com", "Secret#123"); err != nil {
//		return err
//	}
//	leads, err := cli.Leads.FetchList(ctx)
package workpro
