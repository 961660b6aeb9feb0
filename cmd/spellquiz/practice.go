package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spellquiz/internal/quiz"
	"spellquiz/internal/service"
)

const practiceHelp = `Type your spelling and press Enter.
  :hint N   reveal letter N (1-based)
  :prev     go to the previous word
  :next     go to the next word
  :quit     stop without saving`

func newPracticeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "practice <learner>",
		Short: "Run a practice session in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return practiceLearner(cmd.Context(), a.Practice, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// practiceLearner runs one session and reports whether its record was saved
func practiceLearner(ctx context.Context, svc *service.PracticeService, learner string, in io.Reader, out io.Writer) error {
	p, res, err := svc.StartSession(ctx, learner)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Practicing %s (%d words)\n%s\n\n", res.SetName, len(res.Words), practiceHelp)
	if err := runPractice(p.Session, bufio.NewScanner(in), out); err != nil {
		return err
	}
	if p.State() != quiz.Complete {
		return nil
	}

	select {
	case err = <-p.Saved():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err != nil {
		fmt.Fprintf(out, "Your results could not be saved: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "Results saved.")
	return nil
}

// runPractice reads commands and answers until the session completes
func runPractice(sess *quiz.Session, in *bufio.Scanner, out io.Writer) error {
	revealed := map[int]rune{}
	lastIndex := -1

	for sess.State() == quiz.InProgress {
		word, index, total, err := sess.Current()
		if err != nil {
			return err
		}
		if index != lastIndex {
			clear(revealed)
			lastIndex = index
		}
		fmt.Fprintf(out, "Word %d of %d: %s\n> ", index+1, total, mask(word, revealed))

		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())

		switch {
		case line == ":quit":
			fmt.Fprintln(out, "Stopped.")
			return nil
		case line == ":prev" || line == ":next":
			dir := quiz.Next
			if line == ":prev" {
				dir = quiz.Previous
			}
			if err := sess.Navigate(dir); errors.Is(err, quiz.ErrNoAdjacentWord) {
				fmt.Fprintln(out, "No word in that direction.")
			} else if err != nil {
				return err
			}
		case strings.HasPrefix(line, ":hint"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, ":hint")))
			if err != nil {
				fmt.Fprintln(out, "Usage: :hint N")
				continue
			}
			r, err := sess.UseHint(n - 1)
			if errors.Is(err, quiz.ErrHintOutOfRange) {
				fmt.Fprintln(out, "No such letter.")
				continue
			} else if err != nil {
				return err
			}
			revealed[n-1] = r
		default:
			fb, err := sess.CheckAnswer(line)
			if err != nil {
				return err
			}
			if !fb.Correct {
				fmt.Fprintf(out, "Not quite, try again (attempt %d).\n", fb.Attempt)
				continue
			}
			fmt.Fprintln(out, "Correct!")
			if fb.WillAdvance {
				waitForAdvance(sess, index)
			}
		}
	}

	rec, _ := sess.Record()
	correct := 0
	for _, w := range rec.Words {
		if w.Scored() {
			correct++
		}
	}
	fmt.Fprintf(out, "\nSession complete: %d / %d correct first time without hints.\n", correct, len(rec.Words))
	return nil
}

// waitForAdvance blocks until the scheduled advance has moved the session
// past index
func waitForAdvance(sess *quiz.Session, index int) {
	for sess.State() == quiz.InProgress {
		if _, current, _, err := sess.Current(); err != nil || current != index {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// mask hides every letter that has not been revealed
func mask(word string, revealed map[int]rune) string {
	letters := []rune(word)
	cells := make([]string, len(letters))
	for i := range letters {
		cells[i] = "_"
		if r, ok := revealed[i]; ok {
			cells[i] = string(r)
		}
	}
	return strings.Join(cells, " ")
}
