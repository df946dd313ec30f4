package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskboard/taskboard/models"
)

var (
	addDescription string
	addDue         string
	addPriority    string
	addCategory    string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the board",
	Long: `Add a new task. New tasks start in the Todo section.

Examples:
  taskboard add "Write quarterly report" --due 2026-09-15 --priority high --category work
  taskboard add "Buy groceries"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		b, client, cfg, err := openBoard(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		due := time.Now()
		if addDue != "" {
			due, err = time.Parse("2006-01-02", addDue)
			if err != nil {
				return fmt.Errorf("invalid --due date %q (want YYYY-MM-DD): %w", addDue, err)
			}
		}

		draft := models.NewTask(strings.Join(args, " "), due, cfg.Owner)
		draft.Description = addDescription
		if addPriority != "" {
			draft.Priority = models.TaskPriority(addPriority)
		}
		if addCategory != "" {
			draft.Category = models.TaskCategory(addCategory)
		}

		created, err := b.Collection.Create(ctx, *draft)
		if err != nil {
			PrintError("Failed to create task. Check the field values and try again.", err)
			return err
		}

		fmt.Printf("Task created: %s (ID: %s)\n", created.Title, created.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description (max 300 characters)")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date, YYYY-MM-DD (default today)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "priority: low, medium or high")
	addCmd.Flags().StringVar(&addCategory, "category", "", "category: work or personal")
}
