package service

import (
	"context"
	"strings"

	"tasklink/internal/models"
	"tasklink/internal/repository"
	"tasklink/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs an access token for a user and role.
type TokenIssuer func(userID uint, role models.Role) (string, error)

type AuthService struct {
	userRepo   repository.UserRepository
	issueToken TokenIssuer
	bcryptCost int
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by every operation that issues a token.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewAuthService(userRepo repository.UserRepository, issueToken TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, issueToken: issueToken, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleNone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.result(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return s.result(user)
}

// SetRole assigns the account role once. Repeating the same role is a no-op
// that re-issues the token; switching roles is rejected.
func (s *AuthService) SetRole(ctx context.Context, userID uint, role models.Role) (*AuthResult, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}
	if !role.Valid() {
		return nil, models.NewValidationError("Role must be student or company")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleNone && user.Role != role {
		return nil, models.NewValidationError("Role is already set")
	}
	if user.Role != role {
		if err := s.userRepo.SetRole(ctx, userID, role); err != nil {
			return nil, err
		}
		user.Role = role
	}
	return s.result(user)
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.issueToken(user.ID, user.Role)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
