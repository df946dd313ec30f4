package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskboard/taskboard/internal/config"
	"github.com/taskboard/taskboard/internal/server"
	"github.com/taskboard/taskboard/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board over an HTTP JSON API",
	Long: `Run a long-lived process that serves the board over HTTP. The data
file is watched for changes made by other processes, and the collection is
refreshed whenever the file is rewritten. Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, client, cfg, err := openBoard(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		watcher, err := store.WatchFile(config.TaskFilePath(cfg))
		if err != nil {
			return fmt.Errorf("failed to watch the data file: %w", err)
		}
		defer func() { _ = watcher.Close() }()

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-watcher.C:
					if err := b.Refresh(ctx); err != nil {
						LogError("refresh after external change failed", err)
					}
				}
			}
		}()

		srv := server.New(b, cfg.Server)
		var wg sync.WaitGroup
		errChan := make(chan error, 1)
		srv.Start(&wg, errChan)
		fmt.Printf("Serving board for owner %q on %s\n", cfg.Owner, srv.Addr())

		select {
		case err := <-errChan:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			PrintError("Server did not shut down cleanly.", err)
		}
		wg.Wait()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
