package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/coach"
	"github.com/spigell/interview-coach/internal/transcript"
)

const (
	PromptScore  = "Score the interview"
	PromptDump   = "Dump results to file"
	PromptAnswer = "Answer the follow-up"
	PromptSkip   = "Skip the follow-up"
	PromptExit   = "Exit"

	progressInterval = 500 * time.Millisecond
)

var errExit = errors.New("exit requested")

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interactive mock interview generated from a resume",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().StringP("resume", "r", "", "a plain text resume file")
	interviewCmd.Flags().StringP("session", "s", "", "session id (default is a random uuid)")
	interviewCmd.Flags().StringP("personality", "p", "", "interviewer personality: technical, mentor, hr or manager (default is random)")

	interviewCmd.MarkFlagRequired("resume")
}

func runInterview(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger, _, b := setup(ctx, true)
	defer logger.Sync()

	req, err := startRequest(cmd)
	if err != nil {
		logger.Fatal("preparing the session", zap.Error(err))
	}

	session, err := b.service.StartSession(ctx, req)
	if err != nil {
		logger.Fatal("starting the session", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n\n", session.Intro)

	items, err := ask(ctx, b.service, session, out, logger)
	if err != nil && !errors.Is(err, errExit) {
		logger.Fatal("interview interrupted", zap.Error(err))
	}
	if len(items) == 0 {
		logger.Info("exiting", zap.String("reason", "no answers given"))
		return
	}

	var result *coach.BatchResult
	prompt := promptui.Select{
		Label: "Proceed?",
		Items: []string{PromptScore, PromptDump, PromptExit},
	}
	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		switch action {
		case PromptScore:
			result, err = scoreInterview(ctx, b.service, coach.BatchRequest{
				SessionID:   session.ID,
				Personality: session.Personality,
				Items:       items,
			}, logger)
			if err != nil {
				logger.Fatal("scoring the interview", zap.Error(err))
			}
			printSummary(out, result)
		case PromptDump:
			var v any = items
			if result != nil {
				v = result
			}
			filename, err := transcript.DumpToTmpFile(v, app+"-interview-*.json")
			if err != nil {
				logger.Fatal("dump results to file", zap.Error(err))
			}
			logger.Info("dumping result to file", zap.String("filename", filename))
		case PromptExit:
			logger.Info("exiting", zap.String("reason", "got exit from prompt"))
			return
		}
	}
}

// ask walks through the questions, reacting to every answer right away. A
// follow-up question can be answered too; its answer joins the final batch.
func ask(ctx context.Context, svc *coach.Service, session *coach.Session, out io.Writer, logger *zap.Logger) ([]coach.Item, error) {
	items := make([]coach.Item, 0, len(session.Questions))

	for i, q := range session.Questions {
		answer, err := readAnswer(fmt.Sprintf("Q%d. %s", i+1, q.Text))
		if err != nil {
			return items, err
		}
		items = append(items, coach.Item{Question: q.Text, Answer: answer})

		live, err := svc.LiveFollowup(ctx, coach.LiveRequest{
			SessionID:   session.ID,
			Personality: session.Personality,
			Question:    q.Text,
			Answer:      answer,
		})
		if err != nil {
			logger.Warn("no reaction for the answer", zap.Int("question", i+1), zap.Error(err))
			continue
		}

		fmt.Fprintf(out, "\n%s\n", live.Reaction.Text)
		if live.FollowupQuestion == "" {
			fmt.Fprintln(out)
			continue
		}
		fmt.Fprintf(out, "Follow-up: %s\n\n", live.FollowupQuestion)

		choice := promptui.Select{Label: "Follow-up", Items: []string{PromptAnswer, PromptSkip}}
		_, action, err := choice.Run()
		if err != nil {
			return items, errExit
		}
		if action == PromptSkip {
			continue
		}

		followupAnswer, err := readAnswer(live.FollowupQuestion)
		if err != nil {
			return items, err
		}
		items = append(items, coach.Item{Question: live.FollowupQuestion, Answer: followupAnswer})
	}

	return items, nil
}

func readAnswer(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}
	answer, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return "", errExit
	}
	return answer, err
}

// scoreInterview scores the batch while reporting its progress.
func scoreInterview(ctx context.Context, svc *coach.Service, req coach.BatchRequest, logger *zap.Logger) (*coach.BatchResult, error) {
	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := svc.Progress(req.SessionID)
				if p.Total > 0 {
					logger.Info("scoring answers", zap.Int("current", p.Current), zap.Int("total", p.Total))
				}
			}
		}
	}()

	return svc.ScoreBatch(ctx, req)
}

func printSummary(out io.Writer, result *coach.BatchResult) {
	for i, d := range result.Details {
		fmt.Fprintf(out, "%d. %s\n   score: %d/%d", i+1, d.Question, d.Result.Score, d.Result.MaxScore)
		if d.Result.Mode != "" {
			fmt.Fprintf(out, " (%s)", d.Result.Mode)
		}
		fmt.Fprintln(out)
		for _, reason := range slices.Concat(d.Result.WhyLost, d.Result.Feedback) {
			fmt.Fprintf(out, "   - %s\n", reason)
		}
	}
	fmt.Fprintf(out, "\nOverall: %d%%\n", result.OverallScore)
}
