package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newWordSetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordsets",
		Short: "Manage word sets and assignments",
	}
	cmd.AddCommand(newWordSetsImportCmd())
	cmd.AddCommand(newWordSetsListCmd())
	cmd.AddCommand(newWordSetsAssignCmd())
	cmd.AddCommand(newWordSetsAssignmentsCmd())
	cmd.AddCommand(newWordSetsUnassignCmd())
	cmd.AddCommand(newWordSetsCleanupCmd())
	return cmd
}

func newWordSetsImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Create word sets from a TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			by, _ := cmd.Flags().GetString("by")

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.WordSets.ImportTOML(cmd.Context(), f, by)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			for _, set := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s, %d words)\n", set.Name, set.ID, len(set.Words))
			}
			return nil
		},
	}
	cmd.Flags().String("by", "cli", "Creator recorded on imported sets")
	return cmd
}

func newWordSetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List word sets and learner assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sets, err := a.WordSets.ListWordSets(cmd.Context())
			if err != nil {
				return err
			}
			assignments, err := a.WordSets.ListAssignments(cmd.Context())
			if err != nil {
				return err
			}
			learners := make(map[string][]string)
			for _, as := range assignments {
				learners[as.WordSetID] = append(learners[as.WordSetID], as.LearnerID)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tWORDS\tASSIGNED TO")
			for _, set := range sets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", set.ID, set.Name,
					strings.Join(set.Words, ", "), strings.Join(learners[set.ID], ", "))
			}
			return w.Flush()
		},
	}
}

func newWordSetsAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <learner> <set-id>",
		Short: "Assign a word set to a learner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			by, _ := cmd.Flags().GetString("by")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.WordSets.AssignToLearner(cmd.Context(), args[0], args[1], by); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", args[1], args[0])
			return nil
		},
	}
	cmd.Flags().String("by", "cli", "Assigner recorded on the assignment")
	return cmd
}

func newWordSetsAssignmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assignments",
		Short: "Show each assignment as completed or pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			statuses, err := a.WordSets.AssignmentStatuses(cmd.Context())
			if err != nil {
				return err
			}
			if len(statuses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No assignments created yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LEARNER\tWORD SET\tASSIGNED\tSTATUS")
			for _, st := range statuses {
				status := "Pending"
				if st.Completed {
					status = "Completed " + st.CompletedAt.Local().Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.LearnerID, st.WordSetName,
					st.AssignedAt.Local().Format("2006-01-02"), status)
			}
			return w.Flush()
		},
	}
}

func newWordSetsUnassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <learner>",
		Short: "Remove a learner's assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.WordSets.DeleteAssignment(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed assignment for %s\n", args[0])
			return nil
		},
	}
}

func newWordSetsCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete leftover test word sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.WordSets.CleanupTestSets(cmd.Context())
			if err != nil {
				return err
			}
			for _, set := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s): %s\n", set.Name, set.ID, strings.Join(set.Words, ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d test word sets removed\n", len(removed))
			return nil
		},
	}
}
