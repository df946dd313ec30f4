package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskboard/taskboard/board"
	"github.com/taskboard/taskboard/models"
)

// moveCmd represents the move command
var moveCmd = &cobra.Command{
	Use:   "move <task-id> <status>",
	Short: "Move a task to another section",
	Long: `Move a task to the given section, as if it were dragged there on the
board. Moving a task onto the section it is already in does nothing.

Examples:
  taskboard move 4f3a1b2c in-progress
  taskboard move 4f3a1b2c done`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		b, client, _, err := openBoard(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		id, err := resolveTaskID(b, args[0])
		if err != nil {
			return err
		}
		status, err := models.ParseStatus(args[1])
		if err != nil {
			return err
		}

		if err := b.Engine.ApplyDrop(ctx, board.DropEvent{TaskID: id, To: &status}); err != nil {
			PrintError("Failed to move the task.", err)
			return err
		}

		fmt.Printf("Task %s moved to %s.\n", id, status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
