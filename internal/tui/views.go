package tui

import (
	"fmt"
	"strings"

	"ytdlnis/internal/models"

	"github.com/charmbracelet/lipgloss"
)

// View renders the list.
func (m Model) View() string {
	if m.Details != nil {
		return m.renderDetails(m.Details)
	}
	if m.Page == nil {
		if m.Err != nil {
			return ErrorStyle.Render(m.Err.Error())
		}
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.Title()))
	b.WriteString("\n\n")

	if len(m.Page.Items) == 0 {
		b.WriteString(DimStyle.Render("No saved downloads"))
		b.WriteString("\n")
	}
	for i, item := range m.Page.Items {
		b.WriteString(m.renderRow(i, item))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(DimStyle.Render(fmt.Sprintf("Page %d/%d", m.PageNum+1, m.Page.Pages)))
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(ErrorStyle.Render(m.Err.Error()))
	case m.StatusMsg != "":
		b.WriteString(SuccessStyle.Render(m.StatusMsg))
	}
	b.WriteString("\n")
	b.WriteString(DimStyle.Render(m.helpLine()))
	return b.String()
}

// Title shows the selection count once anything is selected.
func (m Model) Title() string {
	if n := m.Sel.Count(m.total()); n > 0 {
		return fmt.Sprintf("%d selected", n)
	}
	return "Saved downloads"
}

func (m Model) renderRow(i int, item *models.DownloadItem) string {
	box := "[ ]"
	if m.Sel.IsSelected(item.ID) {
		box = CheckedStyle.Render("[x]")
	}

	line := fmt.Sprintf("%s %s", box, item.DisplayTitle())
	if item.Author != "" {
		line += " " + SubtitleStyle.Render("· "+item.Author)
	}
	if item.Container != "" {
		line += " " + DimStyle.Render(item.Container)
	}

	if i == m.Cursor {
		return CursorStyle.Render(line)
	}
	return "  " + line
}

func (m Model) renderDetails(item *models.DownloadItem) string {
	rows := [][2]string{
		{"ID", fmt.Sprint(item.ID)},
		{"Title", item.Title},
		{"Author", item.Author},
		{"URL", item.URL},
		{"Type", string(item.Type)},
		{"Container", item.Container},
		{"Format", item.Format.FormatID + " " + item.Format.FormatNote},
		{"Path", item.DownloadPath},
		{"Sections", item.DownloadSections},
		{"Extra", item.ExtraCommands},
		{"Status", string(item.Status)},
	}

	var lines []string
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			SubtitleStyle.Width(11).Render(r[0]),
			r[1],
		))
	}
	return DetailsBox.Render(strings.Join(lines, "\n")) + "\n" + DimStyle.Render("any key to go back")
}

func (m Model) helpLine() string {
	bindings := []struct{ k, h string }{
		{Keys.Toggle.Help().Key, Keys.Toggle.Help().Desc},
		{Keys.SelectAll.Help().Key, Keys.SelectAll.Help().Desc},
		{Keys.Invert.Help().Key, Keys.Invert.Help().Desc},
		{Keys.Delete.Help().Key, Keys.Delete.Help().Desc},
		{Keys.Queue.Help().Key, Keys.Queue.Help().Desc},
	}
	if m.swipe {
		bindings = append(bindings,
			struct{ k, h string }{Keys.SwipeLeft.Help().Key, Keys.SwipeLeft.Help().Desc},
			struct{ k, h string }{Keys.SwipeRight.Help().Key, Keys.SwipeRight.Help().Desc},
			struct{ k, h string }{Keys.Undo.Help().Key, Keys.Undo.Help().Desc},
		)
	}
	bindings = append(bindings, struct{ k, h string }{Keys.Quit.Help().Key, Keys.Quit.Help().Desc})

	parts := make([]string, len(bindings))
	for i, bd := range bindings {
		parts[i] = bd.k + " " + bd.h
	}
	return strings.Join(parts, " • ")
}
