// Package http provides a read-only inspection server for a resolved configuration.
//
// The server exposes the current configuration with secret values masked, lets an
// operator look up a single key, and triggers a re-resolution. A failed reload keeps
// the previous configuration and answers 422 with every problem found.
//
// # Routes
//
//	GET  /healthz       200 once a configuration is resolved, 503 before
//	GET  /config        every value with its type and source
//	GET  /config/{key}  a single value, 404 for unknown keys
//	POST /reload        resolve again, 422 with the report on failure
//
// # Authentication
//
// Set HandlerConfig.Token to require "Authorization: Bearer <token>" on every route
// except /healthz. An empty token leaves the server open.
//
// # Usage
//
//	handle, err := stratum.NewHandle(ctx, resolver, sources)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	handler := http.NewHandler(&http.HandlerConfig{Token: token}, handle)
//	log.Fatal(nethttp.ListenAndServe(":8080", handler.Router()))
package http
