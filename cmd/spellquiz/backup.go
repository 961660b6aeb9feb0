package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import the store as JSON",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the store to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath, _ := cmd.Flags().GetString("output")
			// Generate default filename if not provided
			if outputPath == "" {
				outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}
			if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			defer f.Close()

			data, err := a.Backup.Export(cmd.Context(), f)
			if err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write backup file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d word sets, %d results and %d sentences to %s\n",
				len(data.WordSets), len(data.Results), len(data.Sentences), outputPath)
			return nil
		},
	}
	exportCmd.Flags().String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath, _ := cmd.Flags().GetString("input")
			clearData, _ := cmd.Flags().GetBool("clear")
			yes, _ := cmd.Flags().GetBool("yes")

			f, err := os.Open(inputPath)
			if err != nil {
				return fmt.Errorf("open backup: %w", err)
			}
			defer f.Close()

			if clearData && !yes && !confirm(cmd, "WARNING: This will delete all existing data.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
				return nil
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.Backup.Import(cmd.Context(), f, clearData)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d word sets, %d assignments, %d results and %d sentences\n",
				stats.WordSets, stats.Assignments, stats.Results, stats.Sentences)
			return nil
		},
	}
	importCmd.Flags().String("input", "", "Input file path")
	importCmd.Flags().Bool("clear", false, "Clear existing data before import (destructive)")
	importCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	_ = importCmd.MarkFlagRequired("input")

	cmd.AddCommand(exportCmd, importCmd)
	return cmd
}

// confirm asks the user to type yes
func confirm(cmd *cobra.Command, warning string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s Type 'yes' to confirm: ", warning)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line) == "yes"
}
