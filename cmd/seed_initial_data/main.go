package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"eduassist/cmd/seed_initial_data/internal/seedmodels"
	"eduassist/internal/config"
	"eduassist/internal/database"
	"eduassist/internal/domain"
	"eduassist/internal/logger"
	"eduassist/internal/repository"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const defaultSeedFilePath = "configs/seed_data/roster.json"

func main() {
	seedFilePath := flag.String("file", defaultSeedFilePath, "roster seed file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Loading roster seed file", zap.String("path", *seedFilePath))
	seedClasses, err := seedmodels.Load(*seedFilePath)
	if err != nil {
		log.Fatal("Invalid seed file", zap.Error(err))
	}

	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	s := &seeder{
		classes:  repository.NewClassDatabaseAdapter(db),
		students: repository.NewStudentDatabaseAdapter(db),
		tx:       repository.NewTransactionManagerAdapter(db),
		log:      log,
	}

	failed := 0
	for _, sc := range seedClasses {
		if err := s.seedClass(ctx, sc); err != nil {
			failed++
			log.Error("Error seeding class, transaction rolled back", zap.String("class", sc.Name), zap.Error(err))
		}
	}
	if failed > 0 {
		log.Fatal("Roster seeding finished with errors", zap.Int("failed_classes", failed))
	}
	log.Info("Roster seeding completed", zap.Int("classes", len(seedClasses)))
}

type seeder struct {
	classes  domain.ClassRepository
	students domain.StudentRepository
	tx       domain.TransactionManager
	log      *zap.Logger
}

// seedClass creates the class when missing and adds students whose names
// are not already on its roster, all in one transaction.
func (s *seeder) seedClass(ctx context.Context, sc seedmodels.SeedClass) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.classes.ListClasses(ctx)
		if err != nil {
			return fmt.Errorf("failed to list classes: %w", err)
		}
		if !lo.ContainsBy(existing, func(c *domain.Class) bool { return strings.EqualFold(c.Name, sc.Name) }) {
			class := &domain.Class{Name: sc.Name, Teacher: sc.Teacher}
			if err := s.classes.CreateClass(ctx, class); err != nil {
				return fmt.Errorf("failed to save class %s: %w", sc.Name, err)
			}
			s.log.Info("Created class", zap.String("id", class.ID), zap.String("name", class.Name))
		}

		roster, err := s.students.ListStudentsByClass(ctx, sc.Name)
		if err != nil {
			return fmt.Errorf("failed to list students of %s: %w", sc.Name, err)
		}
		known := lo.SliceToMap(roster, func(st *domain.Student) (string, struct{}) {
			return strings.ToLower(st.Name), struct{}{}
		})

		added := 0
		for _, student := range sc.ToDomain() {
			if _, ok := known[strings.ToLower(student.Name)]; ok {
				continue
			}
			if err := s.students.CreateStudent(ctx, student); err != nil {
				return fmt.Errorf("failed to save student %s: %w", student.Name, err)
			}
			added++
		}
		s.log.Info("Seeded class roster", zap.String("class", sc.Name), zap.Int("added", added), zap.Int("existing", len(roster)))
		return nil
	})
}
