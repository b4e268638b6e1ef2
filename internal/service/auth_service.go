package service

import (
	"context"
	"strings"
	"time"

	"studio-site-api/internal/core/auth"
	"studio-site-api/internal/domain"
	"studio-site-api/pkg/utils"
)

const (
	msgNoToken        = "You are not logged in! Please log in to get access."
	msgUserGone       = "The user belonging to this token does no longer exist."
	msgPasswordMoved  = "User recently changed password! Please log in again."
	msgDeactivated    = "Your account has been deactivated. Please contact support."
	msgBadCredentials = "Invalid email or password"
	msgWrongPassword  = "Your current password is wrong"
)

type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	now   func() time.Time
}

func NewAuthService(users domain.UserRepository, jwt *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwt: jwt, now: time.Now}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register always creates a plain user; admins come from cmd/admin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", domain.Conflict("User already exists with this email")
	}
	u, err := s.newUser(in.Name, in.Email, in.Password, domain.RoleUser)
	if err != nil {
		return nil, "", err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}
	tok, err := s.jwt.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) newUser(name, email, password, role string) (*domain.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:       utils.NewID(),
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Role:     role,
		Avatar:   domain.DefaultAvatar,
		IsActive: true,
	}
	u.SetPassword(hash, s.now(), true)
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, "", domain.Unauthenticated(msgBadCredentials)
	}
	if !u.IsActive {
		return nil, "", domain.Unauthenticated(msgDeactivated)
	}
	now := s.now().UTC()
	if err := s.users.UpdateColumns(ctx, u.ID, map[string]any{"last_login": now}); err != nil {
		return nil, "", err
	}
	u.LastLogin = &now
	tok, err := s.jwt.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Resolve turns a bearer token into the active user it was issued to.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Unauthenticated(msgNoToken)
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.Unauthenticated(msgUserGone)
	}
	if u.ChangedPasswordAfter(claims.Issued()) {
		return nil, domain.Unauthenticated(msgPasswordMoved)
	}
	if !u.IsActive {
		return nil, domain.Unauthenticated(msgDeactivated)
	}
	return u, nil
}

func (s *AuthService) Me(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("User not found")
	}
	return u, nil
}

// UpdateDetailsInput only carries name and email; role, password and
// activity cannot be changed through it.
type UpdateDetailsInput struct {
	Name  *string
	Email *string
}

func (s *AuthService) UpdateDetails(ctx context.Context, id string, in UpdateDetailsInput) (*domain.User, error) {
	u, err := s.Me(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != u.Email {
			other, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.Conflict("Email is already in use")
			}
			u.Email = email
		}
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePassword verifies the current password, stores the new one and
// returns a fresh token; tokens minted before the change stop working.
func (s *AuthService) UpdatePassword(ctx context.Context, id, current, next string) (*domain.User, string, error) {
	u, err := s.Me(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !utils.CheckPassword(current, u.PasswordHash) {
		return nil, "", domain.Unauthenticated(msgWrongPassword)
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return nil, "", err
	}
	u.SetPassword(hash, s.now(), false)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, "", err
	}
	tok, err := s.jwt.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// EnsureAdmin creates an admin account, or promotes and reactivates the
// existing account with that email. A non-empty password replaces the old one.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, bool, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if u == nil {
		if password == "" {
			return nil, false, domain.Invalid("Password is required for a new admin")
		}
		u, err = s.newUser(name, email, password, domain.RoleAdmin)
		if err != nil {
			return nil, false, err
		}
		return u, true, s.users.Create(ctx, u)
	}
	u.Role = domain.RoleAdmin
	u.IsActive = true
	if password != "" {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return nil, false, err
		}
		u.SetPassword(hash, s.now(), false)
	}
	return u, false, s.users.Update(ctx, u)
}
