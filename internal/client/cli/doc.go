// Package cli provides the interactive ReWear command-line client.
//
// App wires the auth service and the marketplace API into a small REPL.
// On start it tries to resume the session saved by the previous run, then
// watches server connectivity in the background while the user browses
// listings, manages their own items, swaps, redeems and, for admins,
// moderates the catalogue.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
