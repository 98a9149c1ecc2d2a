package main

import (
	"context"
	"log"
	"os"
	"time"

	"policfy-be/internal/config"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/repository/unitofwork"
	adminUser "policfy-be/pkg/admin/user"
	"policfy-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var samplePolicies = []entity.Policy{
	{Title: "Term Life Basic", Description: "Level cover for your family for a fixed term.", Premium: 25, Coverage: "$100,000", Duration: 10, Category: entity.PolicyCategoryLife},
	{Title: "Health Plus", Description: "Hospitalisation and outpatient care.", Premium: 60, Coverage: "$50,000 per year", Duration: 1, Category: entity.PolicyCategoryHealth},
	{Title: "Home Shield", Description: "Buildings and contents cover against fire, flood and theft.", Premium: 35, Coverage: "$250,000", Duration: 1, Category: entity.PolicyCategoryHome},
	{Title: "Auto Comprehensive", Description: "Own damage and third party liability.", Premium: 45, Coverage: "Market value", Duration: 1, Category: entity.PolicyCategoryAuto},
	{Title: "Travel Lite", Description: "Medical emergencies and trip cancellation abroad.", Premium: 12, Coverage: "$20,000 per trip", Duration: 1, Category: entity.PolicyCategoryTravel},
}

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	color.Cyan("Seeding super admin...")
	if err := seedSuperAdmin(ctx, uow, cfg); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding policies...")
	if err := seedPolicies(ctx, uow); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Seeding completed")
}

func seedSuperAdmin(ctx context.Context, uow unitofwork.UnitOfWork, cfg *config.Config) error {
	if os.Getenv("SUPER_ADMIN_PASSWORD") == "" {
		color.Yellow("SUPER_ADMIN_PASSWORD not set, using the development default")
	}

	manager := adminUser.NewManager(logger.NewNop(), cfg.Auth.SuperAdminEmail)
	created, err := manager.EnsureSuperAdmin(ctx, uow, cfg.Auth.SuperAdminPassword)
	if err != nil {
		return err
	}
	if !created {
		color.Yellow("Super admin %s already exists, skipping", cfg.Auth.SuperAdminEmail)
		return nil
	}
	color.Green("Created super admin: %s", cfg.Auth.SuperAdminEmail)
	return nil
}

func seedPolicies(ctx context.Context, uow unitofwork.UnitOfWork) error {
	count, err := uow.PolicyRepository().Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		color.Yellow("%d policies already present, skipping", count)
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	for _, p := range samplePolicies {
		policy := p
		policy.Id = uuid.New()
		policy.IsActive = true
		policy.CreatedAt = now
		policy.UpdatedAt = now
		if err := uow.PolicyRepository().Create(ctx, &policy); err != nil {
			return err
		}
		color.Green("Created policy: %s", policy.Title)
	}

	return uow.Commit()
}
