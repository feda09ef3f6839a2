package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/coach"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Classify a resume and print the first batch of interview questions as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		runQuestions(cmd)
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)

	questionsCmd.Flags().StringP("resume", "r", "", "a plain text resume file")
	questionsCmd.Flags().StringP("session", "s", "", "session id (default is a random uuid)")
	questionsCmd.Flags().StringP("personality", "p", "", "interviewer personality: technical, mentor, hr or manager (default is random)")
	questionsCmd.Flags().StringSlice("asked", nil, "questions that were already asked and must not be repeated")

	questionsCmd.MarkFlagRequired("resume")
}

func runQuestions(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger, _, b := setup(ctx, false)
	defer logger.Sync()

	req, err := startRequest(cmd)
	if err != nil {
		logger.Fatal("preparing the session", zap.Error(err))
	}

	session, err := b.service.StartSession(ctx, req)
	if err != nil {
		logger.Fatal("starting the session", zap.Error(err))
	}

	if err := writeJSON(cmd.OutOrStdout(), session); err != nil {
		logger.Fatal("printing the session", zap.Error(err))
	}
}

func startRequest(cmd *cobra.Command) (coach.StartRequest, error) {
	path, _ := cmd.Flags().GetString("resume")
	data, err := os.ReadFile(path)
	if err != nil {
		return coach.StartRequest{}, fmt.Errorf("reading resume: %w", err)
	}

	id, _ := cmd.Flags().GetString("session")
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	name, _ := cmd.Flags().GetString("personality")
	personality, err := parsePersonality(name)
	if err != nil {
		return coach.StartRequest{}, err
	}

	var asked []string
	if cmd.Flags().Lookup("asked") != nil {
		asked, _ = cmd.Flags().GetStringSlice("asked")
	}

	return coach.StartRequest{
		SessionID:    id,
		ResumeText:   string(data),
		AlreadyAsked: asked,
		Personality:  personality,
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
