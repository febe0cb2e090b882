package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/payhub-id/payment-service/config"
	"github.com/payhub-id/payment-service/internal/domain/entity"
	"github.com/payhub-id/payment-service/pkg/helpers"
)

type seedUser struct {
	email    string
	password string
	name     string
	role     entity.Role
	balance  float64
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	users := []seedUser{
		{"root@payhub.local", "superadmin123", "Root", entity.RoleSuperAdmin, 0},
		{"admin@payhub.local", "admin123", "Admin", entity.RoleAdmin, 0},
		{"alice@payhub.local", "password123", "Alice", entity.RoleUser, cfg.StartingBalance},
		{"bob@payhub.local", "password123", "Bob", entity.RoleUser, cfg.StartingBalance},
	}

	for _, u := range users {
		hash, err := helpers.HashPassword(u.password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		var id string
		err = db.QueryRow(`
			INSERT INTO users (email, password_hash, name, role, is_active, balance)
			VALUES ($1, $2, $3, $4, TRUE, $5)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role
			RETURNING id
		`, u.email, hash, u.name, u.role.String(), u.balance).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		fmt.Printf("seeded user: id=%s email=%s role=%s password=%s\n", id, u.email, u.role, u.password)
	}
}
