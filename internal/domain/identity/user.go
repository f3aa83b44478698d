package identity

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Role names. Permissions per module hang off the role.
const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleSupervisor = "supervisor"
	RoleViewer     = "viewer"
)

// Action is a permission verb checked per module
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// User is an application account
type User struct {
	shared.BaseEntity
	Username     string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	FullName     string `gorm:"size:200" json:"full_name,omitempty"`
	Email        string `gorm:"size:254" json:"email,omitempty"`
	Role         string `gorm:"size:30;not null;default:viewer" json:"role"`
	Active       bool   `gorm:"not null;default:true" json:"active"`
}

// TableName returns the database table name
func (User) TableName() string { return "users" }

// NewUser creates an active user with a bcrypt-hashed password
func NewUser(username, password, role string) (*User, error) {
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the stored password hash
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// rolePermissions maps role -> module -> allowed actions. Admin is handled
// separately and allowed everything.
var rolePermissions = map[string]map[string][]Action{
	RoleAccountant: {
		"clients":    {ActionView},
		"projects":   {ActionView},
		"invoices":   {ActionView, ActionCreate, ActionEdit},
		"advances":   {ActionView, ActionCreate, ActionEdit},
		"expenses":   {ActionView, ActionCreate, ActionEdit},
		"payrolls":   {ActionView, ActionCreate, ActionEdit},
		"quotations": {ActionView},
		"reports":    {ActionView},
		"dashboard":  {ActionView},
	},
	RoleSupervisor: {
		"clients":    {ActionView},
		"projects":   {ActionView, ActionCreate, ActionEdit},
		"expenses":   {ActionView, ActionCreate},
		"inventory":  {ActionView, ActionCreate, ActionEdit},
		"payrolls":   {ActionView, ActionCreate},
		"quotations": {ActionView, ActionCreate, ActionEdit},
		"files":      {ActionView, ActionCreate},
		"dashboard":  {ActionView},
	},
	RoleViewer: {
		"clients":    {ActionView},
		"projects":   {ActionView},
		"invoices":   {ActionView},
		"advances":   {ActionView},
		"expenses":   {ActionView},
		"inventory":  {ActionView},
		"payrolls":   {ActionView},
		"quotations": {ActionView},
		"files":      {ActionView},
		"reports":    {ActionView},
		"dashboard":  {ActionView},
	},
}

// HasPermission reports whether the user's role allows the action on a module
func (u *User) HasPermission(module string, action Action) bool {
	if !u.Active {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	modules, ok := rolePermissions[u.Role]
	if !ok {
		return false
	}
	actions, ok := modules[module]
	if !ok {
		return false
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// Repository persists users
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, user *User) error
}
