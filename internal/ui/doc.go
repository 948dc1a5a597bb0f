// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for catalog administration:
//  1. [LoginView] : Authenticate against the backend when no session exists
//  2. [GameListView] / [TagListView] / [UserListView] : Browse, filter, and mutate records
//  3. [GameFormView] / [TagFormView] : Create or edit a record, optionally attaching an image
//  4. [ConfirmView] : Confirm destructive operations before they reach the server
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// List data flows through the state controllers, which keep local and server
// state consistent; the model only renders what the controllers expose.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
