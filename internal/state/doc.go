// Package state implements the client-side data synchronization layer shared
// by every screen: list controllers that own an authoritative fetched
// collection with a locally derived filtered view, and mutation forms that
// drive the upload-then-save lifecycle of a draft record.
//
// The package is UI-free. The TUI and CLI both sit on top of it, and all of
// its behavior is testable without a rendering harness:
//
//   - [ListController] : reload/filter/delete for one resource; filtering is
//     a pure derivation over the last successful fetch, a sequence number
//     guards against a stale in-flight response overwriting a newer one, and
//     deletes are optimistic (local removal, no rollback; the next reload is
//     authoritative).
//   - [Form] : closed/creating/editing/uploading/saving phases; a pending
//     local asset is always uploaded and merged into the draft before the
//     create or update call is issued.
//
// Consistency model: no locks beyond each controller's own, no transactions;
// local state is eventually correct after the next successful reload.
package state
