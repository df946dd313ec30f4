package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taskboard/taskboard/board"
	"github.com/taskboard/taskboard/internal/config"
	"github.com/taskboard/taskboard/models"
	"github.com/taskboard/taskboard/store"
	"github.com/taskboard/taskboard/types"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoTasksFound is returned when an interactive selection is attempted but no tasks are available.
	ErrNoTasksFound = errors.New("no tasks found matching your criteria")
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "taskboard manages your personal task board from the command line.",
	Long: `taskboard is a personal task-board manager. Tasks move across three
sections - Todo, In Progress and Completed - through direct edits or board
moves, and can be listed, searched, created and deleted.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(config.InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.taskboard/.taskboard.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("owner", "", "owner id to act as (default from config or TASKBOARD_OWNER)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("owner", rootCmd.PersistentFlags().Lookup("owner"))
}

// getClient initializes the file-backed repository client from the
// effective configuration.
func getClient() (*store.FileClient, types.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}

	client := store.NewFileClient()
	taskFilePath := config.TaskFilePath(cfg)
	if err := client.Initialize(map[string]string{
		"dataFile":       taskFilePath,
		"dataFileFormat": cfg.Data.Format,
	}); err != nil {
		return nil, cfg, fmt.Errorf("failed to initialize store at %s: %w", taskFilePath, err)
	}
	return client, cfg, nil
}

// openBoard assembles a board and loads the configured owner's tasks. The
// returned client must be closed by the caller.
func openBoard(ctx context.Context) (*board.Board, *store.FileClient, types.AppConfig, error) {
	client, cfg, err := getClient()
	if err != nil {
		return nil, nil, cfg, err
	}

	b := board.New(client)
	if err := b.SetOwner(ctx, cfg.Owner); err != nil {
		_ = client.Close()
		return nil, nil, cfg, fmt.Errorf("failed to load tasks for owner %q: %w", cfg.Owner, err)
	}
	return b, client, cfg, nil
}

// resolveTaskID resolves a full id or a unique id prefix against the
// current collection.
func resolveTaskID(b *board.Board, arg string) (string, error) {
	if _, ok := b.Collection.Task(arg); ok {
		return arg, nil
	}

	var matches []string
	for _, t := range b.Collection.Snapshot() {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", &types.NotFoundError{ID: arg}
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}

// selectTaskInteractive presents a prompt to the user to select a task
// from the current collection.
func selectTaskInteractive(b *board.Board, label string) (models.Task, error) {
	tasks := b.Collection.Snapshot()
	if len(tasks) == 0 {
		return models.Task{}, ErrNoTasksFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} (ID: {{ .ID }}, Status: {{ .Status }})`,
		Inactive: `  {{ .Title | faint }} (ID: {{ .ID }}, Status: {{ .Status }})`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }} (ID: {{ .ID }})`,
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Size:      10,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return models.Task{}, err
	}
	return tasks[i], nil
}
