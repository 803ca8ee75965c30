package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"caregiver-aptitude-service/internal/config"
	"caregiver-aptitude-service/internal/domain"
	"caregiver-aptitude-service/internal/infra/postgres"
	"caregiver-aptitude-service/internal/logger"
	"caregiver-aptitude-service/internal/quizdoc"
	"caregiver-aptitude-service/internal/scoring"
)

// NewSeedCmd stores the built-in quiz, or a quiz document from --file, in Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store a quiz definition in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.Postgres.URL == "" {
				return errPostgresNotConfigured
			}

			quiz, err := loadQuizFile(file)
			if err != nil {
				return err
			}

			db := openBunDB(cfg.Postgres.URL)
			defer db.Close()
			if err := runMigrations(cmd.Context(), db, log); err != nil {
				return err
			}
			if err := postgres.SaveQuiz(cmd.Context(), db, quiz); err != nil {
				return err
			}
			logger.WithQuiz(log, quiz.ID).Info("quiz seeded", zap.Int("questions", len(quiz.Questions)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "quiz JSON document (defaults to the built-in quiz)")
	return cmd
}

func loadQuizFile(path string) (domain.Quiz, error) {
	if path == "" {
		return scoring.DefaultQuiz(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Quiz{}, err
	}
	return quizdoc.Decode(raw)
}
