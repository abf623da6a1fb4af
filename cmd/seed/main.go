package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"food-spot-backend/internal/config"
	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	pg "food-spot-backend/internal/infra/db/postgres"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	adminEmail := flag.String("admin-email", "admin@foodspot.local", "admin account email")
	adminPassword := flag.String("admin-password", "changeme", "admin account password")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pg.RunMigrations(cfg.Database.URL, zerolog.Nop()); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	userRepo := pg.NewUserRepo(pool)
	spotRepo := pg.NewFoodSpotRepo(pool)

	// Admin account, created once. Sample spots are only seeded alongside a
	// fresh admin so reruns don't duplicate them.
	admin, err := userRepo.FindByEmail(ctx, nil, *adminEmail)
	switch {
	case err == nil:
		fmt.Printf("admin %s already present. No changes.\n", admin.Email)
		return
	case errors.Is(err, domain.ErrNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		admin, err = model.NewUser("", "Administrator", *adminEmail, string(hash))
		if err != nil {
			log.Fatalf("build admin: %v", err)
		}
		admin.Role = model.RoleAdmin
		if err := userRepo.Save(ctx, nil, admin); err != nil {
			log.Fatalf("save admin: %v", err)
		}
		fmt.Printf("seeded admin: %s\n", admin.Email)
	default:
		log.Fatalf("lookup admin: %v", err)
	}

	// A few approved sample spots so a fresh instance isn't empty.
	samples := []struct {
		Title    string
		Location string
		Category string
		Min, Max int64
	}{
		{"Star Kabab", "Dhanmondi, Dhaka", "Kabab", 150, 600},
		{"Haji Biriyani", "Old Dhaka", "Biriyani", 180, 400},
		{"Chillox", "Banani, Dhaka", "Burger", 250, 700},
	}
	for _, s := range samples {
		spot, err := model.NewFoodSpot(admin.ID, s.Title, "", s.Location, s.Category, s.Min, s.Max)
		if err != nil {
			log.Fatalf("build spot %q: %v", s.Title, err)
		}
		spot.ApprovalStatus = model.ApprovalStatusApproved
		if err := spotRepo.Save(ctx, nil, spot); err != nil {
			log.Fatalf("save spot %q: %v", s.Title, err)
		}
		fmt.Printf("seeded spot: %s (%s)\n", spot.Title, spot.Location)
	}

	fmt.Println("Seeding complete.")
}
