// Package models defines the data model for the catalog admin console.
//
// The package contains the three record types managed by the console:
//
//   - [Game] : A catalog entry served by the backend
//   - [Tag] : A secondary category a game can reference
//   - [UserAccount] : An end-user account whose subscription flag can be toggled
//
// The authoritative copies of all records live on the backend; these types
// mirror its wire format and absorb its quirks (sparse tag arrays,
// object-or-string tag references, absent category defaults) once, at the
// decode boundary, so nothing downstream has to deal with them.
package models
