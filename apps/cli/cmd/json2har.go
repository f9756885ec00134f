package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/harkit/packages/har"
	"github.com/abdul-hamid-achik/harkit/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	json2harDirFlag   string
	json2harWatchFlag bool
)

var json2harCmd = &cobra.Command{
	Use:   "json2har <manifest> <har>",
	Short: "Rebuild a HAR file from a manifest and its JSON files",
	Long: `Replace every response body in the manifest that names a .json file
with the contents of that file, and write the resulting HAR file.

A referenced file that no longer exists is reported and its entry is kept
as it is. With --watch the HAR file is rebuilt whenever a JSON file or the
manifest changes.

Examples:
  harkit json2har manifest.json api.har
  harkit json2har manifest.json api.har -j fixtures/json --watch`,
	Args: cobra.ExactArgs(2),
	RunE: json2harCommand,
}

func init() {
	json2harCmd.Flags().StringVarP(&json2harDirFlag, "json-dir", "j", "json", "Directory holding the JSON files")
	json2harCmd.Flags().BoolVarP(&json2harWatchFlag, "watch", "w", false, "Watch the JSON files and rebuild on change")
}

func json2harCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	manifestPath, outPath := args[0], args[1]

	merge := func() error {
		reporter, err := newReporter(cmd, cfg)
		if err != nil {
			return err
		}
		res, err := har.NewMerger(json2harDirFlag, har.WithWarnFunc(reporter.Warn)).MergeFile(manifestPath, outPath)
		if err != nil {
			return err
		}
		reporter.Merge(output.MergeSummary{
			ManifestPath: manifestPath,
			OutPath:      outPath,
			Rehydrated:   res.Rehydrated,
			Missing:      res.Missing,
		})
		flush(reporter)
		return nil
	}

	if err := merge(); err != nil {
		return err
	}
	if !json2harWatchFlag {
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return watchAndMerge(ctx, cmd, manifestPath, outPath, merge)
}

func watchAndMerge(ctx context.Context, cmd *cobra.Command, manifestPath, outPath string, merge func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// fsnotify is not recursive, add every directory of the JSON tree
	watchedDirs := make(map[string]bool)
	add := func(dir string) {
		if watchedDirs[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to watch %s: %v\n", dir, err)
			return
		}
		watchedDirs[dir] = true
	}
	add(filepath.Dir(manifestPath))
	_ = filepath.WalkDir(json2harDirFlag, func(path string, d os.DirEntry, err error) error {
		if err == nil && d.IsDir() {
			add(path)
		}
		return nil
	})

	absOut, _ := filepath.Abs(outPath)
	absManifest, _ := filepath.Abs(manifestPath)

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n")

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					add(event.Name)
					continue
				}
			}

			abs, _ := filepath.Abs(event.Name)
			relevant := abs == absManifest || strings.HasSuffix(event.Name, ".json")
			if abs == absOut || !relevant {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Debounce: reset timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nFile changed: %s\nRebuilding %s...\n", name, outPath)
				if err := merge(); err != nil {
					reporter, rerr := newReporter(cmd, nil)
					if rerr == nil {
						reporter.Error(err)
						flush(reporter)
					}
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n")
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}
