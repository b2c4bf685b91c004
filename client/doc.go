// Package client implements the state containers of the Workpro admin API.
//
// Every domain store (leads, offers, invoices, users, products, ...) mirrors a
// server side collection: it fetches pages with search, sort and filters,
// loads single records and proxies create, update and delete calls. Local
// state only changes after the server confirmed an operation. Failures are
// logged, reported to a Notifier and returned as *Error.
//
// Authorization is delegated to the http.Client transport, see
// client/auth/transport.
package client
