package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/xenking/pokedex/internal/domain/catalog"
	"github.com/xenking/pokedex/internal/navigator"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EE1515"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	helpStyle     = mutedStyle.MarginTop(1)
)

func tagStyle(tag string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(catalog.TagHexColor(tag)))
}

func dot(tag string) string {
	return tagStyle(tag).Render("●")
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.route.View {
	case navigator.ViewList:
		return m.listView()
	case navigator.ViewDetail:
		return m.detailView()
	default:
		return titleStyle.Render("Not found") + "\n" +
			mutedStyle.Render(m.route.Path) + "\n" +
			m.help(m.keys.Home, m.keys.Back, m.keys.Quit)
	}
}

func (m Model) listView() string {
	s := m.listState
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pokédex"))
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(m.search.View())
	} else if s.Filter.Query != "" {
		b.WriteString(mutedStyle.Render("search: ") + s.Filter.Query)
	} else {
		b.WriteString(mutedStyle.Render("press / to search"))
	}
	b.WriteString("\n")

	tags := make([]string, 0, len(s.Categories))
	for i, c := range s.Categories {
		label := c
		if s.Filter.Selected(c) {
			label = selectedStyle.Render(label)
		}
		label = dot(c) + " " + label
		if i == m.tagCursor {
			label = cursorStyle.Render(" ") + label
		} else {
			label = " " + label
		}
		tags = append(tags, label)
	}
	if len(tags) > 0 {
		b.WriteString(lipgloss.NewStyle().Width(max(m.width, 40)).Render(strings.Join(tags, " ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if !s.Loaded {
		b.WriteString(m.spinner.View() + " Loading...\n")
		b.WriteString(m.help(m.keys.Quit))
		return b.String()
	}

	if len(s.Page.Items) == 0 {
		b.WriteString(mutedStyle.Render("No matches") + "\n")
	}
	for i, it := range s.Page.Items {
		line := fmt.Sprintf("#%-5d %-20s", it.ID, it.Name)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		dots := make([]string, 0, len(it.Types))
		for _, t := range it.Types {
			dots = append(dots, dot(t))
		}
		b.WriteString(line + " " + strings.Join(dots, "") + "\n")
	}

	pager := fmt.Sprintf("page %d", s.Page.Number)
	if s.Page.HasPrev {
		pager = "‹ " + pager
	}
	if s.Page.HasNext {
		pager += " ›"
	}
	if s.Loading {
		pager += " " + m.spinner.View()
	}
	b.WriteString("\n" + mutedStyle.Render(pager))
	b.WriteString(m.help(
		m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Left, m.keys.Right, m.keys.Toggle,
		m.keys.Search, m.keys.Next, m.keys.Prev, m.keys.Clear, m.keys.Quit,
	))
	return b.String()
}

func (m Model) detailView() string {
	it := m.detailState.Item
	if it == nil || m.detailState.Loading {
		return m.spinner.View() + " Loading...\n" + m.help(m.keys.Home, m.keys.Back, m.keys.Quit)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(it.Name), mutedStyle.Render(fmt.Sprintf("#%d", it.ID)))

	types := make([]string, 0, len(it.Types))
	for _, t := range it.Types {
		types = append(types, dot(t)+" "+tagStyle(t).Render(t))
	}
	b.WriteString("Types: " + strings.Join(types, ", ") + "\n")
	if ms := it.Measurements; ms != nil {
		fmt.Fprintf(&b, "Height: %s m · Weight: %s kg\n", ms.HeightMeters(), ms.WeightKilograms())
	}

	b.WriteString("\nAbilities\n")
	wrap := lipgloss.NewStyle().PaddingLeft(2)
	if m.width > 0 {
		wrap = wrap.Width(m.width)
	}
	for _, a := range it.Abilities {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(a.Name) + " " + mutedStyle.Render("("+a.Version+")") + "\n")
		b.WriteString(wrap.Render(a.Description) + "\n")
	}
	b.WriteString(m.help(m.keys.Home, m.keys.Back, m.keys.Quit))
	return b.String()
}

func (m Model) help(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return "\n" + helpStyle.Render(strings.Join(parts, " · "))
}
