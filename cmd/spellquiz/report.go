package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spellquiz/internal/app"
	"spellquiz/internal/report"
	"spellquiz/internal/results"
	"spellquiz/internal/service"
)

// addReportFlags registers the filters shared by report and digest
func addReportFlags(cmd *cobra.Command) {
	keys := make([]string, 0, len(results.SortKeys()))
	for _, k := range results.SortKeys() {
		keys = append(keys, string(k))
	}

	cmd.Flags().String("learner", "", "Only this learner")
	cmd.Flags().String("wordset", "", "Only this word set name")
	cmd.Flags().String("from", "", "First day (YYYY-MM-DD), default is the configured range")
	cmd.Flags().String("to", "", "Last day (YYYY-MM-DD), default is today")
	cmd.Flags().Bool("complete", false, "Only sessions that checked every word of their set")
	cmd.Flags().Bool("all-dates", false, "Ignore the default date range")
	cmd.Flags().String("sort", string(results.SortDateLatest), "Sort order: "+strings.Join(keys, ", "))
}

// reportQuery builds the query from flags on top of the default range
func reportQuery(cmd *cobra.Command, a *app.App) (service.ReportQuery, error) {
	q := a.Analytics.DefaultQuery()

	if all, _ := cmd.Flags().GetBool("all-dates"); all {
		q.From, q.To = time.Time{}, time.Time{}
	}
	for flag, dst := range map[string]*time.Time{"from": &q.From, "to": &q.To} {
		s, _ := cmd.Flags().GetString(flag)
		if s == "" {
			continue
		}
		t, err := results.ParseDate(s, time.Local)
		if err != nil {
			return q, fmt.Errorf("--%s: %w", flag, err)
		}
		*dst = t
	}

	q.LearnerID, _ = cmd.Flags().GetString("learner")
	q.WordSetName, _ = cmd.Flags().GetString("wordset")
	q.CompleteOnly, _ = cmd.Flags().GetBool("complete")

	sortFlag, _ := cmd.Flags().GetString("sort")
	key, ok := results.ParseSortKey(sortFlag)
	if !ok {
		return q, fmt.Errorf("unknown sort order %q", sortFlag)
	}
	q.Sort = key
	return q, nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show practice results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			q, err := reportQuery(cmd, a)
			if err != nil {
				return err
			}
			rep, err := a.Analytics.Report(cmd.Context(), q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rep.Records) == 0 {
				fmt.Fprintln(out, "No results found.")
				return nil
			}
			if err := report.Table(out, rep.Records); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return report.WriteSummary(out, rep.Summary)
		},
	}
	addReportFlags(cmd)
	return cmd
}

func newDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Email the practice results report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetString("to")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.Email.IsEnabled() {
				return fmt.Errorf("email is not configured: set SES_FROM_EMAIL")
			}

			q, err := reportQuery(cmd, a)
			if err != nil {
				return err
			}
			rep, err := a.Analytics.Report(cmd.Context(), q)
			if err != nil {
				return err
			}
			if err := a.Email.SendResultsDigest(cmd.Context(), to, rep); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %d results to %s\n", len(rep.Records), to)
			return nil
		},
	}
	addReportFlags(cmd)
	cmd.Flags().String("to", "", "Recipient email address")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Delete stored practice results",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Analytics.DeleteResult(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted result %s\n", args[0])
			return nil
		},
	})

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes && !confirm(cmd, "WARNING: This will delete all results.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Analytics.DeleteAllResults(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d results\n", n)
			return nil
		},
	}
	clearCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	cmd.AddCommand(clearCmd)
	return cmd
}
