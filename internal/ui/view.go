package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tracklist/internal/cache"
	"github.com/desertthunder/tracklist/internal/shared"
)

// View renders the header, both panes, the search box, and help.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if !m.store.Ready() {
		b.WriteString(styles.warn.Render("Not signed in. Run `tracklist auth login` first."))
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.quit}))
		return b.String()
	}

	if m.showProfile {
		b.WriteString(m.renderProfile())
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderPlaylists(), m.renderTracks()))
	b.WriteString("\n")
	b.WriteString(m.renderSearch())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderHeader() string {
	title := styles.title.Render("tracklist")
	entry := m.store.Profile()
	if !entry.Ready() {
		return title
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", styles.dim.Render(entry.Data.DisplayName))
}

func (m *Model) renderProfile() string {
	entry := m.store.Profile()
	switch entry.Status {
	case cache.StatusPending, cache.StatusIdle:
		return styles.dim.Render("Loading profile…")
	case cache.StatusError:
		return styles.err.Render(fmt.Sprintf("Profile unavailable: %v", entry.Err))
	}

	p := entry.Data
	lines := []string{
		styles.ok.Render(p.DisplayName),
		fmt.Sprintf("Email: %s", orDash(p.Email)),
	}
	if img, ok := p.Avatar(); ok {
		lines = append(lines, fmt.Sprintf("Avatar: %s", img.URL))
	}
	return styles.blurred.Render(strings.Join(lines, "\n"))
}

func (m *Model) pane(p Pane) lipgloss.Style {
	if m.focus == p {
		return styles.focused
	}
	return styles.blurred
}

func (m *Model) renderPlaylists() string {
	entry := m.store.Playlists()
	var body string
	switch entry.Status {
	case cache.StatusError:
		body = styles.err.Render(fmt.Sprintf("Could not load playlists:\n%v", entry.Err))
	case cache.StatusSuccess:
		if entry.Data.Len() == 0 {
			body = styles.dim.Render("No playlists")
		} else {
			body = m.playlists.View()
		}
	default:
		body = styles.dim.Render("Loading playlists…")
	}
	return m.pane(PlaylistPane).Render(body)
}

func (m *Model) renderTracks() string {
	return m.pane(TracksPane).Render(m.tracksStatus() + "\n" + m.tracks.View())
}

func (m *Model) tracksStatus() string {
	sel, selected := m.store.Selection()
	if !selected {
		return styles.dim.Render("Select a playlist")
	}
	if sel.Err != nil {
		if errors.Is(sel.Err, shared.ErrStaleSelection) {
			return styles.warn.Render("That playlist is no longer available")
		}
		return styles.err.Render(sel.Err.Error())
	}

	entry := m.store.TracksEntry()
	name := styles.ok.Render(sel.Playlist.Name)
	switch entry.Status {
	case cache.StatusPending, cache.StatusIdle:
		return name + styles.dim.Render("  loading…")
	case cache.StatusError:
		return name + "  " + styles.err.Render(entry.Err.Error())
	}

	view := m.store.View()
	return name + styles.dim.Render(fmt.Sprintf("  %d tracks • %s", view.Len(), view.Column().Label()))
}

func (m *Model) renderSearch() string {
	if m.focus != SearchPane {
		return styles.help.Render("Press / to search the catalog")
	}

	s := m.store.Search()
	var status string
	switch {
	case s.Pending():
		status = styles.dim.Render("searching…")
	case s.Err() != nil:
		status = styles.err.Render(s.Err().Error())
	case strings.TrimSpace(s.Query()) != "" && len(s.Visible()) == 0:
		status = styles.dim.Render("no results")
	}

	parts := []string{m.input.View()}
	if status != "" {
		parts = append(parts, status)
	}
	if len(s.Visible()) > 0 {
		parts = append(parts, m.results.View())
	}
	return m.pane(SearchPane).Render(strings.Join(parts, "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
