// Package repositories implements SQLite persistence for the console's local
// state.
//
// The console itself is stateless with respect to catalog data (the backend
// is always authoritative); what persists locally is:
//
//   - [CredentialRepository] : the admin session token under a fixed key,
//     with its expiry window
//   - [AuditRepository] : an append-only log of mutations issued through
//     the console
package repositories
