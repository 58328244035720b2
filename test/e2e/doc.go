/*
Package main provides end-to-end tests for a running taskpool.

The suite is a black-box client: it talks to the HTTP API through
pkg/client and never imports server internals. Start a server first:

	taskpool run --db-path :memory: --http-port 8080

then run the suite:

	go run ./test/e2e -server-url http://localhost:8080

# Package Structure

	test/e2e/
	├── main.go   Entry point: flags, client setup, Ginkgo runner
	├── tests.go  Ginkgo specs
	└── doc.go    This file

# Flags

	┌──────────────┬─────────────────────────┬──────────────────────────────────┐
	│ Flag         │ Default                 │ Description                      │
	├──────────────┼─────────────────────────┼──────────────────────────────────┤
	│ -server-url  │ http://localhost:8080   │ Server under test                │
	│ -auth-secret │ ""                      │ Sign a token when auth is on     │
	│ -auth-issuer │ taskpool                │ Token issuer                     │
	│ -timeout     │ 30s                     │ Per-spec timeout                 │
	└──────────────┴─────────────────────────┴──────────────────────────────────┘

Specs are Ordered and leave the pool bounds as they found them.
*/
package main
