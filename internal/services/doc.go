// Package services implements the typed HTTP client for the file backend's
// admin REST surface.
//
// All operations go through a single [Client], which attaches the bearer
// token from its [TokenSource] to every request, normalizes the backend's
// optional {success, data} response envelope, and reports a 401 on any call
// through the client's unauthorized hook exactly once per response. The hook
// is an explicit callback consumed by the session store; the client itself
// performs no navigation and keeps no session state.
//
// The layer never retries; network failures and non-2xx statuses surface to
// the caller as wrapped sentinel errors from internal/shared.
package services
