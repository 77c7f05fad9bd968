// Command seed creates an admin, a demo user and a small catalog, then
// prints bearer tokens for both accounts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	intconfig "travelbooking/internal/config"
	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/http/middleware"
	"travelbooking/internal/repositories"
	"travelbooking/internal/services"
	"travelbooking/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	name, email, phone, password string
	role                         domain.Role
}

var seedUsers = []seedUser{
	{"Admin", "admin@travel.local", "555-0001", "admin123", domain.RoleAdmin},
	{"Demo Traveller", "demo@travel.local", "555-0002", "demo123", domain.RoleUser},
}

var seedCatalog = []models.TravelService{
	{
		Name: "Coastal Express", Type: models.ServiceTypeBus, Source: "Mumbai", Destination: "Goa",
		Price: 1200, Duration: "11h", Description: "Overnight AC sleeper along the coast.",
		Amenities: models.StringList{"WiFi", "Blanket", "Charging point"}, AvailableSeats: 36, IsActive: true,
	},
	{
		Name: "Lakeview Residency", Type: models.ServiceTypeHotel, Source: "Nainital", Destination: "Nainital",
		Price: 3800, Duration: "per night", Description: "Rooms facing Naini lake, breakfast included.",
		Amenities: models.StringList{"Breakfast", "Parking"}, AvailableSeats: 18, IsActive: true,
	},
	{
		Name: "Spiti Valley Circuit", Type: models.ServiceTypeTrip, Source: "Manali", Destination: "Kaza",
		Price: 24500, Duration: "7 days", Description: "Guided high-altitude road trip with homestays.",
		Amenities: models.StringList{"Guide", "Meals", "Permits"}, AvailableSeats: 12, IsActive: true,
	},
}

func main() {
	skipCatalog := flag.Bool("users-only", false, "seed accounts but not the catalog")
	ttl := flag.Duration("token-ttl", 24*time.Hour, "lifetime of printed tokens")
	flag.Parse()

	env := intconfig.LoadEnv()
	utils.ConfigureLogger(false)
	log := utils.Log

	db, err := intconfig.ConnectDB(env.DB)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer db.Close()

	if err := intdb.Migrate(db.DB); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	ctx := context.Background()
	users := repositories.UserRepository{DB: db}
	now := utils.NowUTC()

	for _, su := range seedUsers {
		u, err := ensureUser(ctx, users, su, now)
		if err != nil {
			log.WithError(err).WithField("email", su.email).Fatal("failed to seed user")
		}
		tok, err := middleware.IssueToken([]byte(env.JWTSecret), u, *ttl)
		if err != nil {
			log.WithError(err).Fatal("failed to sign token")
		}
		fmt.Printf("%s (%s) id=%d\n  Bearer %s\n", u.Email, u.Role, u.ID, tok)
	}

	if *skipCatalog {
		return
	}
	catalog := services.CatalogService{Catalog: repositories.CatalogRepository{DB: db}, RequestID: "seed"}
	for _, s := range seedCatalog {
		created, err := catalog.Create(ctx, s)
		if err != nil {
			log.WithError(err).WithField("name", s.Name).Fatal("failed to seed travel service")
		}
		fmt.Printf("travel service %q id=%d\n", created.Name, created.ID)
	}
}

// ensureUser returns the existing account for the email or creates it.
func ensureUser(ctx context.Context, repo repositories.UserRepository, su seedUser, now time.Time) (models.User, error) {
	if u, err := repo.GetByEmail(ctx, su.email); err == nil {
		return u, nil
	} else if !domain.IsNotFound(err) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		Name:         su.name,
		Email:        su.email,
		Phone:        su.phone,
		PasswordHash: string(hash),
		Role:         su.role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, &u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return repo.GetByEmail(ctx, su.email)
		}
		return models.User{}, err
	}
	return u, nil
}
