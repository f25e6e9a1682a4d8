package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the bootstrap user when it does not exist yet.
func SeedAdmin(ctx context.Context, database DB, username, password string, logger *zap.Logger) error {
	if username == "" {
		return nil
	}

	var count int
	err := database.ExecQueryRow(ctx, "SELECT COUNT(*) FROM users WHERE username = $1", username).Scan(&count)
	if err != nil {
		return fmt.Errorf("counting admin users: %w", err)
	}

	if count > 0 {
		logger.Debug("admin user already exists", zap.String("username", username))
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	if _, err := database.Exec(ctx, "INSERT INTO users (username, password) VALUES ($1, $2)", username, string(hashed)); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	logger.Info("admin user created", zap.String("username", username))
	return nil
}
