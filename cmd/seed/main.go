package main

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dealhub/internal/config"
	"dealhub/internal/db"
	"dealhub/internal/model"
	"dealhub/internal/repository"
)

type seedUser struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type seedListing struct {
	SellerEmail string
	Title       string
	Description string
	Price       string
	Category    string
}

var seedUsers = []seedUser{
	{Name: "Alice Admin", Email: "alice@dealhub.local", Password: "admin-password", Role: model.RoleAdmin},
	{Name: "Bob Seller", Email: "bob@dealhub.local", Password: "bob-password", Role: model.RoleUser},
	{Name: "Carol Buyer", Email: "carol@dealhub.local", Password: "carol-password", Role: model.RoleUser},
}

var seedListings = []seedListing{
	{SellerEmail: "bob@dealhub.local", Title: "Mountain bike", Description: "Hardtail, medium frame, barely used", Price: "350.00", Category: "sports"},
	{SellerEmail: "bob@dealhub.local", Title: "Standing desk", Description: "Electric height adjustment, 140x70", Price: "220.50", Category: "furniture"},
	{SellerEmail: "alice@dealhub.local", Title: "Espresso machine", Description: "Single boiler, recently descaled", Price: "180.00", Category: "kitchen"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Listing{}, &model.Deal{}, &model.DealMessage{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	listingRepo := repository.NewListingRepository(gormDB)
	ctx := context.Background()

	users, err := seedUsersIntoDB(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	created, err := seedListingsIntoDB(ctx, listingRepo, users)
	if err != nil {
		log.Fatalf("Failed to seed listings: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users present: %d", len(users))
	log.Printf("  - New listings created: %d", created)
}

// seedUsersIntoDB creates the demo users unless they already exist, returning
// all of them keyed by email.
func seedUsersIntoDB(ctx context.Context, repo repository.UserRepository) (map[string]*model.User, error) {
	users := make(map[string]*model.User, len(seedUsers))
	for _, item := range seedUsers {
		existing, err := repo.FindByEmail(ctx, item.Email)
		if err == nil {
			users[item.Email] = existing
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check user %s: %w", item.Email, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(item.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", item.Email, err)
		}

		user := &model.User{
			Name:         item.Name,
			Email:        item.Email,
			PasswordHash: string(hashed),
			Role:         item.Role,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user %s: %w", item.Email, err)
		}
		log.Printf("Created user %s", item.Email)
		users[item.Email] = user
	}
	return users, nil
}

// seedListingsIntoDB creates the demo listings for sellers that do not have
// any listings yet.
func seedListingsIntoDB(ctx context.Context, repo repository.ListingRepository, users map[string]*model.User) (int, error) {
	// Snapshot counts first so sellers that already had listings are skipped
	// without the first created listing masking the rest.
	hasListings := make(map[uint]bool, len(users))
	for _, user := range users {
		count, err := repo.CountBySeller(ctx, user.ID)
		if err != nil {
			return 0, fmt.Errorf("count listings for %s: %w", user.Email, err)
		}
		hasListings[user.ID] = count > 0
	}

	created := 0
	for _, item := range seedListings {
		seller, ok := users[item.SellerEmail]
		if !ok {
			return created, fmt.Errorf("unknown seller %s", item.SellerEmail)
		}
		if hasListings[seller.ID] {
			continue
		}

		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return created, fmt.Errorf("invalid price for %q: %w", item.Title, err)
		}

		listing := &model.Listing{
			Title:       item.Title,
			Description: item.Description,
			Price:       price,
			Category:    item.Category,
			Status:      model.ListingStatusActive,
			SellerID:    seller.ID,
		}
		if err := repo.Create(ctx, listing); err != nil {
			return created, fmt.Errorf("create listing %q: %w", item.Title, err)
		}
		log.Printf("Created listing %q for %s", item.Title, item.SellerEmail)
		created++
	}
	return created, nil
}
