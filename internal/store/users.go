package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ananev/boutique/internal/model"
)

// CreateAdminUser creates a new admin operator.
func CreateAdminUser(ctx context.Context, db *sql.DB, username, email, firstName, lastName, passwordHash, role string) (*model.AdminUser, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO admin_users (username, email, first_name, last_name, password_hash, role)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		username, nullable(email), nullable(firstName), nullable(lastName), passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating admin user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting admin user id: %w", err)
	}

	return GetAdminUser(ctx, db, id)
}

// GetAdminUser returns an admin user by ID.
func GetAdminUser(ctx context.Context, db *sql.DB, id int64) (*model.AdminUser, error) {
	u := &model.AdminUser{}
	var email, firstName, lastName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, username, email, first_name, last_name, password_hash, role, created_at, deleted_at
		 FROM admin_users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &email, &firstName, &lastName, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin user: %w", err)
	}
	u.Email = email.String
	u.FirstName = firstName.String
	u.LastName = lastName.String
	return u, nil
}

// GetAdminUserByUsername returns an admin user by username (including
// soft-deleted, so login can distinguish and refuse them).
func GetAdminUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.AdminUser, error) {
	u := &model.AdminUser{}
	var email, firstName, lastName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, username, email, first_name, last_name, password_hash, role, created_at, deleted_at
		 FROM admin_users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &email, &firstName, &lastName, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin user by username: %w", err)
	}
	u.Email = email.String
	u.FirstName = firstName.String
	u.LastName = lastName.String
	return u, nil
}

// UpdateAdminPassword updates an admin user's password hash.
func UpdateAdminPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE admin_users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating admin password: %w", err)
	}
	return nil
}

// CreateUser creates a self-registered storefront user with role "user".
func CreateUser(ctx context.Context, db *sql.DB, email, name, passwordHash string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (email, name, password_hash) VALUES (?, ?, ?)`,
		email, name, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a storefront user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, role, created_at, deleted_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a storefront user by email (including soft-deleted
// for auth checks).
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, role, created_at, deleted_at
		 FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// UpdateUserPassword updates a storefront user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}
