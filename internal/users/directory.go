package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("users: user not found")

// User is an account from the auth schema.
type User struct {
	ID           string     `json:"id"`
	Email        *string    `json:"email"`
	Phone        *string    `json:"phone"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at"`
}

// Directory reads auth accounts.
type Directory interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
}

const userColumns = "id, email, phone, role, created_at, last_sign_in_at"

// PostgresDirectory queries auth.users.
type PostgresDirectory struct {
	db *sql.DB
}

// NewPostgresDirectory creates a directory over db.
func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	if db == nil {
		panic("users: sql db required")
	}
	return &PostgresDirectory{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (User, error) {
	var (
		u         User
		email     sql.NullString
		phone     sql.NullString
		role      sql.NullString
		lastLogin sql.NullTime
	)
	if err := row.Scan(&u.ID, &email, &phone, &role, &u.CreatedAt, &lastLogin); err != nil {
		return User{}, err
	}
	if email.Valid {
		u.Email = &email.String
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	u.Role = role.String
	if lastLogin.Valid {
		u.LastSignInAt = &lastLogin.Time
	}
	return u, nil
}

func (d *PostgresDirectory) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT "+userColumns+" FROM auth.users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("users: scan: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users: list rows: %w", err)
	}
	return out, nil
}

func (d *PostgresDirectory) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	row := d.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM auth.users WHERE id = $1", id.String())
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("users: get: %w", err)
	}
	return u, nil
}

// InMemoryDirectory serves a fixed set of accounts.
type InMemoryDirectory struct {
	mu    sync.RWMutex
	users []User
}

// NewInMemoryDirectory creates a directory holding users.
func NewInMemoryDirectory(users ...User) *InMemoryDirectory {
	return &InMemoryDirectory{users: slices.Clone(users)}
}

// Add appends an account.
func (d *InMemoryDirectory) Add(u User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, u)
}

func (d *InMemoryDirectory) ListUsers(context.Context) ([]User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := slices.Clone(d.users)
	if out == nil {
		out = []User{}
	}
	return out, nil
}

func (d *InMemoryDirectory) GetUser(_ context.Context, id uuid.UUID) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == id.String() {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}
