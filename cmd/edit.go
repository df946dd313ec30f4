package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskboard/taskboard/types"
)

var (
	editTitle       string
	editDescription string
	editDue         string
	editPriority    string
	editCategory    string
	editStatus      string
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit a task's fields",
	Long: `Edit any subset of a task's fields, including its status. The edit
is validated before anything is written: the title and due date must stay
present and the description may not exceed 300 characters. On a validation
failure nothing changes, so you can correct the flag and retry.`,
	Args: cobra.ExactArgs(1),
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

		fields := map[string]interface{}{}
		if cmd.Flags().Changed("title") {
			fields["title"] = editTitle
		}
		if cmd.Flags().Changed("description") {
			fields["description"] = editDescription
		}
		if cmd.Flags().Changed("due") {
			due, err := time.Parse("2006-01-02", editDue)
			if err != nil {
				return fmt.Errorf("invalid --due date %q (want YYYY-MM-DD): %w", editDue, err)
			}
			fields["dueDate"] = due.UTC()
		}
		if cmd.Flags().Changed("priority") {
			fields["priority"] = editPriority
		}
		if cmd.Flags().Changed("category") {
			fields["category"] = editCategory
		}
		if cmd.Flags().Changed("status") {
			fields["status"] = editStatus
		}
		if len(fields) == 0 {
			return fmt.Errorf("nothing to edit; pass at least one field flag")
		}

		updated, err := b.Engine.ApplyEdit(ctx, id, fields)
		if err != nil {
			if types.IsValidation(err) {
				PrintError("Edit rejected: the task fields are invalid. Nothing was changed.", err)
			} else {
				PrintError("Failed to update the task.", err)
			}
			return err
		}

		fmt.Printf("Task %s updated.\n", updated.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "new description (max 300 characters)")
	editCmd.Flags().StringVar(&editDue, "due", "", "new due date, YYYY-MM-DD")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "new priority: low, medium or high")
	editCmd.Flags().StringVar(&editCategory, "category", "", "new category: work or personal")
	editCmd.Flags().StringVar(&editStatus, "status", "", "new status: todo, in-progress or completed")
}
