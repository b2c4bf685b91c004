// Package cli implements the workpro command line tool.
//
// Every command loads the configuration, restores the session from the
// configured token store and prints its result as JSON:
//
//	workpro -c workpro.yaml login -u jane@example.com -p 'Secret#123'
//	workpro -c workpro.yaml list leads --per-page 25 --search acme
//	workpro -c workpro.yaml get offers 12
//	workpro -c workpro.yaml logout
//
// A file or redis token store keeps the session between invocations.
package cli
