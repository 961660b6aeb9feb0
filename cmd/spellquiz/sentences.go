package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spellquiz/internal/models"
	"spellquiz/internal/results"
	"spellquiz/internal/sentences"
)

func newSentencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sentences",
		Short: "Review sentences written by learners",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sentences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c sentences.Criteria
			c.LearnerName, _ = cmd.Flags().GetString("learner")
			c.WordSetName, _ = cmd.Flags().GetString("wordset")
			for flag, dst := range map[string]*time.Time{"from": &c.From, "to": &c.To} {
				s, _ := cmd.Flags().GetString(flag)
				t, err := results.ParseDate(s, time.Local)
				if err != nil {
					return fmt.Errorf("--%s: %w", flag, err)
				}
				*dst = t
			}
			sortKey, _ := cmd.Flags().GetString("sort")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			view, err := a.Sentences.ListSentences(cmd.Context(), c, sentences.SortKey(sortKey))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range view.Sentences {
				fmt.Fprintf(out, "%s  %-16s %-12s %s  [%s]\n",
					s.CreatedAt.Local().Format("2006-01-02 15:04"), s.LearnerName, s.TargetWord, s.Text, s.WordSetName)
			}
			fmt.Fprintf(out, "\n%d sentences, %d learners, %d words", view.Stats.Total, view.Stats.Learners, view.Stats.Words)
			if view.Stats.MostActive != "" {
				fmt.Fprintf(out, ", most active: %s", view.Stats.MostActive)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	listCmd.Flags().String("learner", "", "Only this learner")
	listCmd.Flags().String("wordset", "", "Only this word set name")
	listCmd.Flags().String("from", "", "First day (YYYY-MM-DD)")
	listCmd.Flags().String("to", "", "Last day (YYYY-MM-DD)")
	listCmd.Flags().String("sort", string(sentences.SortDateDesc), "Sort order, e.g. date_desc, student_asc, word_asc")

	addCmd := &cobra.Command{
		Use:   "add <learner> <word> <sentence>",
		Short: "Record a sentence",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, _ := cmd.Flags().GetString("wordset")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.Sentences.AddSentence(cmd.Context(), models.Sentence{
				LearnerName: args[0],
				TargetWord:  args[1],
				Text:        args[2],
				WordSetName: set,
				CreatedAt:   time.Now(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved sentence %s\n", s.ID)
			return nil
		},
	}
	addCmd.Flags().String("wordset", "", "Word set the word belongs to")

	cmd.AddCommand(listCmd, addCmd)
	return cmd
}
