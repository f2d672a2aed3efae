// Package client talks to the admin server and bootstraps local storage.
//
// APIClient speaks the JSON HTTP API: it carries the session token as a
// bearer header and maps response status codes back to sentinel errors so
// callers can use errors.Is. HealthProbe asks the gRPC health endpoint
// whether the server is serving. InitDatabase opens the sqlite cache and
// applies its embedded goose migrations.
package client
