package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes the events database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the events database",
	Long:  "Permanently delete the SQLite events database. All stored matches will be lost. Run fetch again afterwards to rebuild.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	path := cfg.DBPath
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", path)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(path + suffix)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", path)
	return nil
}
