package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskboard/taskboard/board"
	"github.com/taskboard/taskboard/models"
)

// sectionLabel maps a status to its display name.
func sectionLabel(s models.TaskStatus) string {
	switch s {
	case models.StatusTodo:
		return "Todo"
	case models.StatusInProgress:
		return "In Progress"
	case models.StatusCompleted:
		return "Completed"
	}
	return string(s)
}

func sectionAccent(s models.TaskStatus) lipgloss.Style {
	switch s {
	case models.StatusInProgress:
		return StyleInProgressAccent
	case models.StatusCompleted:
		return StyleCompletedAccent
	default:
		return StyleTodoAccent
	}
}

// RenderBoard renders the three grouped sections. Collapsed sections show
// only their header and count; expanded sections show a task table.
// Selected task ids are marked in the first column.
func RenderBoard(groups board.Groups, expanded map[models.TaskStatus]bool, selected func(id string) bool) string {
	var sb strings.Builder

	for _, status := range models.AllStatuses() {
		tasks := groups.ByStatus(status)
		open := expanded == nil || expanded[status]

		marker := "▾"
		if !open {
			marker = "▸"
		}
		header := fmt.Sprintf("%s %s (%d)", marker, sectionLabel(status), len(tasks))
		sb.WriteString(sectionAccent(status).Render(header) + "\n")

		if !open {
			sb.WriteString(StyleSubtle.Render("  collapsed") + "\n\n")
			continue
		}
		if len(tasks) == 0 {
			sb.WriteString(StyleSubtle.Render("  no tasks") + "\n\n")
			continue
		}

		table := &Table{
			Headers:  []string{"", "ID", "TITLE", "DUE", "PRIORITY", "CATEGORY"},
			MaxWidth: 40,
		}
		for _, t := range tasks {
			mark := " "
			if selected != nil && selected(t.ID) {
				mark = "*"
			}
			table.Rows = append(table.Rows, []string{
				mark,
				shortID(t.ID),
				t.Title,
				t.DueDate.Format("2006-01-02"),
				string(t.Priority),
				string(t.Category),
			})
		}
		sb.WriteString(table.Render() + "\n")
	}

	return sb.String()
}

// shortID truncates a uuid for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
