// Package models defines the records the client reads from the Web API.
//
// Records are plain values decoded by the services package:
//   - [UserProfile] : the authenticated account and its avatar images
//   - [PlaylistSummary] : one playlist with the opaque reference to its tracks resource
//   - [PlaylistCollection] : the user's playlists in provider order, indexed by identity
//   - [Track] : a playlist entry or search result with album and artists
//
// Consumers treat records handed out by the cache as read-only; views that reorder tracks work on copies.
package models
