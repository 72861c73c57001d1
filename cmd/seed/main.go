package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"ascendant/internal/config"
	"ascendant/internal/logging"
	"ascendant/internal/repository"
)

func main() {
	var (
		questionsFile string
		remove        bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the assessment question set into MongoDB",
		Long: `Loads a question set (the embedded list, or --questions FILE) and upserts it
into MONGO_DATABASE under its key, or under QUESTIONS_SURVEY when the file
has none. --delete removes the stored set instead.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(cmd.Context(), questionsFile, remove)
		},
	}
	cmd.Flags().StringVar(&questionsFile, "questions", "", "YAML question file (default: embedded list)")
	cmd.Flags().BoolVar(&remove, "delete", false, "delete the stored set")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func seed(ctx context.Context, questionsFile string, remove bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.MongoURI == "" {
		return errors.New("MONGO_URI is not set")
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewSurveyRepo(client.Database(cfg.MongoDatabase))

	if remove {
		if err := repo.Delete(ctx, cfg.QuestionsSurvey); err != nil {
			return err
		}
		logger.Info("question set deleted", zap.String("set", cfg.QuestionsSurvey))
		return nil
	}

	source := repository.NewDefaultQuestionRepo()
	if questionsFile != "" {
		if source, err = repository.NewFileQuestionRepo(questionsFile); err != nil {
			return err
		}
	}
	set, err := source.GetSet(ctx, "")
	if err != nil {
		return err
	}
	if set.Key == "" {
		set.Key = cfg.QuestionsSurvey
	}

	if err := repo.Save(ctx, set); err != nil {
		return err
	}
	logger.Info("question set seeded",
		zap.String("set", set.Key),
		zap.String("database", cfg.MongoDatabase),
		zap.Int("count", len(set.Questions)),
	)
	return nil
}
