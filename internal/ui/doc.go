// Package ui implements the interactive playlist browser using bubbletea's Elm architecture.
//
// The screen has three regions:
//  1. [PlaylistPane] : the user's playlists (bubbles/list)
//  2. [TracksPane] : the selected playlist's tracks in display order (bubbles/table)
//  3. [SearchPane] : the catalog search input and its live results (bubbles/textinput, bubbles/list)
//
// The [Model] holds only widgets. Every key press that changes what is shown becomes a [state.Action] dispatched to
// the [state.Store]; the effects the store returns are performed as commands, and their results re-enter Update as
// actions. Widgets are refreshed from the store after each dispatch.
//
// Search results are drawn only while the search input has focus. Sorting (t/a/d) applies to the tracks pane and r refetches the playlists and the open playlist.
// Contextual help is displayed via charmbracelet/bubbles/help; press ? for the full key list.
package ui
