// Package client talks to the ReWear backend and keeps the CLI's local
// session database.
//
// GRPCClient wraps the generated-style api.Client with two interceptors:
// one attaches the access token and a request id to every call and
// transparently refreshes an expired access token once; the other applies
// the request timeout and maps gRPC statuses back to the sentinel errors in
// package common, so callers can match them with errors.Is.
//
// InitDatabase opens the SQLite session database and applies its embedded
// goose migrations.
package client
