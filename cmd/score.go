package cmd

import (
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/transcript"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a transcript of answered questions and print the results as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		runScore(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("batch", "b", "", "a JSON transcript with items or parallel questions and answers")
	scoreCmd.Flags().StringP("personality", "p", "", "interviewer personality used when the transcript names none")
	scoreCmd.Flags().Bool("strict", false, "fail when questions and answers have different lengths")
	scoreCmd.Flags().Bool("dump", false, "also dump the results to a temporary file")

	scoreCmd.MarkFlagRequired("batch")
}

func runScore(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger, _, b := setup(ctx, true)
	defer logger.Sync()

	path, _ := cmd.Flags().GetString("batch")
	strict, _ := cmd.Flags().GetBool("strict")

	batch, err := transcript.Load(path, transcript.Options{Strict: strict})
	if err != nil {
		logger.Fatal("loading the transcript", zap.String("file", path), zap.Error(err))
	}
	if batch.Dropped > 0 {
		logger.Warn("unpaired transcript entries ignored", zap.Int("dropped", batch.Dropped))
	}
	if batch.SessionID == "" {
		batch.SessionID = uuid.NewString()
	}

	name, _ := cmd.Flags().GetString("personality")
	fallback, err := parsePersonality(name)
	if err != nil {
		logger.Fatal("parsing personality", zap.Error(err))
	}

	result, err := b.service.ScoreBatch(ctx, batch.Request(fallback))
	if err != nil {
		logger.Fatal("scoring the transcript", zap.Error(err))
	}

	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		logger.Fatal("printing the results", zap.Error(err))
	}

	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		filename, err := transcript.DumpToTmpFile(result, app+"-score-*.json")
		if err != nil {
			logger.Fatal("dump results to file", zap.Error(err))
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
	}
}
