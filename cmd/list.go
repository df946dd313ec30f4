package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskboard/taskboard/internal/ui"
	"github.com/taskboard/taskboard/models"
)

var (
	listSearch   string
	listCollapse []string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the board, grouped by section",
	Long: `Show all tasks grouped into the Todo, In Progress and Completed
sections. The search filter matches case-insensitively against title and
description.

Examples:
  taskboard list
  taskboard list --search report
  taskboard list --collapse completed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, client, _, err := openBoard(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		for _, name := range listCollapse {
			status, err := models.ParseStatus(name)
			if err != nil {
				return err
			}
			b.Sections.Toggle(status)
		}

		groups := b.View(listSearch)
		if groups.Total() == 0 {
			if listSearch != "" {
				cmd.Printf("No tasks match %q.\n", listSearch)
			} else {
				cmd.Println("No tasks on the board.")
				cmd.Println("Add one with: taskboard add \"Your task here\"")
			}
			return nil
		}

		fmt.Print(ui.RenderBoard(groups, b.Sections.Snapshot(), b.Selection.Has))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter tasks by title/description substring")
	listCmd.Flags().StringSliceVar(&listCollapse, "collapse", nil, "sections to collapse (todo, in-progress, completed)")
}
