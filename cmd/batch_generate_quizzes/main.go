package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync/atomic"

	"eduassist/internal/adapter/llm"
	"eduassist/internal/adapter/quizgen"
	"eduassist/internal/config"
	"eduassist/internal/database"
	"eduassist/internal/domain"
	"eduassist/internal/logger"
	"eduassist/internal/repository"
	"eduassist/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// plannedQuiz is one entry of the batch plan file.
type plannedQuiz struct {
	Name       string `json:"name"`
	Grade      string `json:"grade"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

type batchPlan struct {
	Owner   string        `json:"owner"`
	Quizzes []plannedQuiz `json:"quizzes"`
}

func main() {
	planPath := flag.String("plan", "configs/seed_data/quiz_plan.json", "batch plan file")
	parallel := flag.Int("parallel", 2, "concurrent generation requests")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()
	log := logger.Get()

	raw, err := os.ReadFile(*planPath)
	if err != nil {
		log.Fatal("Failed to read batch plan", zap.String("path", *planPath), zap.Error(err))
	}
	var plan batchPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		log.Fatal("Failed to parse batch plan", zap.Error(err))
	}
	if plan.Owner == "" {
		log.Fatal("Batch plan has no owner")
	}

	model, err := llm.NewModel(cfg.LLM)
	if err != nil || model == nil {
		log.Fatal("A language model is required for batch generation", zap.Error(err))
	}
	generator := quizgen.NewLLMQuizGenerator(model, cfg.LLM.Language, cfg.LLM.Temperature)

	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	quizService := service.NewQuizService(
		repository.NewQuizDatabaseAdapter(db),
		repository.NewAttemptDatabaseAdapter(db),
		generator,
		service.NewMessageService(llm.NewTextGenerator(model, cfg.LLM.Temperature)),
		nil,
		cfg.Quiz,
	)

	var saved, failed atomic.Int32
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*parallel)
	for _, pq := range plan.Quizzes {
		g.Go(func() error {
			spec := domain.QuizSpec{
				Grade:      domain.Grade(pq.Grade),
				Topic:      pq.Topic,
				Difficulty: domain.Difficulty(pq.Difficulty),
				Count:      pq.Count,
			}
			questions, err := quizService.Generate(ctx, spec)
			if err != nil {
				failed.Add(1)
				log.Error("Quiz generation failed", zap.String("topic", pq.Topic), zap.Error(err))
				return nil
			}
			quiz := domain.NewQuiz(plan.Owner, pq.Name, spec, questions)
			created, err := quizService.Create(ctx, plan.Owner, quiz)
			if err != nil {
				failed.Add(1)
				log.Error("Saving generated quiz failed", zap.String("topic", pq.Topic), zap.Error(err))
				return nil
			}
			saved.Add(1)
			log.Info("Quiz saved",
				zap.String("id", created.ID),
				zap.String("name", created.Name),
				zap.String("link", quizService.ShareLink(created.ID)))
			return nil
		})
	}
	_ = g.Wait()

	log.Info("Batch generation completed", zap.Int32("saved", saved.Load()), zap.Int32("failed", failed.Load()))
	if failed.Load() > 0 {
		os.Exit(1)
	}
}
