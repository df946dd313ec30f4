package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task-id...]",
	Short: "Delete one or more tasks",
	Long: `Delete tasks from the board. With no arguments an interactive picker
is shown. With several ids the deletions run one at a time and each failure
is reported individually; a task that has already disappeared counts as
deleted.`,
	Aliases: []string{"rm", "remove"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		b, client, _, err := openBoard(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		var ids []string
		if len(args) == 0 {
			task, err := selectTaskInteractive(b, "Select a task to delete")
			if err != nil {
				if err == ErrNoTasksFound {
					cmd.Println("No tasks to delete.")
					return nil
				}
				return err
			}
			ids = []string{task.ID}
		} else {
			for _, arg := range args {
				id, err := resolveTaskID(b, arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
		}

		if !deleteYes {
			label := fmt.Sprintf("Delete %d task(s)", len(ids))
			if len(ids) == 1 {
				if task, ok := b.Collection.Task(ids[0]); ok {
					label = fmt.Sprintf("Delete task %q", task.Title)
				}
			}
			confirm := promptui.Prompt{Label: label, IsConfirm: true}
			if _, err := confirm.Run(); err != nil {
				cmd.Println("Deletion cancelled.")
				return nil
			}
		}

		b.Selection.SelectAll(ids)
		failures := b.Selection.BulkDelete(ctx, b.Collection)
		deleted := len(ids) - len(failures)

		if deleted > 0 {
			fmt.Printf("Deleted %d task(s).\n", deleted)
		}
		if len(failures) > 0 {
			for _, f := range failures {
				PrintError(fmt.Sprintf("Failed to delete task %s.", f.ID), f.Err)
			}
			failed := make([]string, 0, len(failures))
			for _, f := range failures {
				failed = append(failed, f.ID)
			}
			return fmt.Errorf("failed to delete %d task(s): %s", len(failures), strings.Join(failed, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}
