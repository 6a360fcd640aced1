package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/scyware/assettrack-backend/pkg/config"
	"github.com/scyware/assettrack-backend/pkg/db"
	"github.com/scyware/assettrack-backend/pkg/db/models"
	"github.com/scyware/assettrack-backend/pkg/enums"
	"github.com/scyware/assettrack-backend/pkg/logger"
	"github.com/scyware/assettrack-backend/pkg/security"
)

// Seeds a main store, one sub-store, and an account per role. Existing rows
// are left untouched, so the command is safe to re-run.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	password := flag.String("password", "", "password for seeded accounts (generated when empty)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	secret := *password
	if secret == "" {
		secret, err = security.GenerateTempPassword(16)
		if err != nil {
			logg.Error(ctx, "failed to generate password", err)
			os.Exit(1)
		}
		fmt.Println("generated password for seeded accounts:", secret)
	}

	hash, err := security.HashPassword(secret, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash password", err)
		os.Exit(1)
	}

	err = dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		mainStore, err := ensureStore(tx, models.Store{Name: "Main Warehouse", IsMainStore: true})
		if err != nil {
			return err
		}
		branch, err := ensureStore(tx, models.Store{Name: "Branch Office", ParentStoreID: &mainStore.ID})
		if err != nil {
			return err
		}

		accounts := []models.User{
			{
				Name:         "Root Admin",
				Email:        "root@assettrack.local",
				Role:         enums.UserRoleSuperAdmin,
				PasswordHash: hash,
			},
			{
				Name:            "Store Admin",
				Email:           "admin@assettrack.local",
				Role:            enums.UserRoleAdmin,
				AssignedStoreID: &mainStore.ID,
				PasswordHash:    hash,
			},
			{
				Name:            "Field Technician",
				Email:           "tech@assettrack.local",
				Role:            enums.UserRoleTechnician,
				AssignedStoreID: &branch.ID,
				PasswordHash:    hash,
			},
		}
		for _, account := range accounts {
			if err := ensureUser(tx, account); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seed complete")
}

func ensureStore(tx *gorm.DB, store models.Store) (*models.Store, error) {
	var existing models.Store
	err := tx.Where("name = ?", store.Name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up store %q: %w", store.Name, err)
	}

	store.ID = uuid.New()
	if err := tx.Create(&store).Error; err != nil {
		return nil, fmt.Errorf("creating store %q: %w", store.Name, err)
	}
	return &store, nil
}

func ensureUser(tx *gorm.DB, user models.User) error {
	var existing models.User
	err := tx.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("looking up user %q: %w", user.Email, err)
	}

	user.ID = uuid.New()
	if err := tx.Create(&user).Error; err != nil {
		return fmt.Errorf("creating user %q: %w", user.Email, err)
	}
	return nil
}
