package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"nexusshop/internal/domain"
	"nexusshop/internal/repos"
	"nexusshop/internal/validate"
)

type AuthService struct {
	Users    *repos.UserRepo
	Profiles *repos.SellerProfileRepo
	// Cost is the bcrypt work factor; zero means bcrypt.DefaultCost.
	Cost int
}

func NewAuthService(users *repos.UserRepo, profiles *repos.SellerProfileRepo) *AuthService {
	return &AuthService{Users: users, Profiles: profiles}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
	Phone     string
	Address   string
}

func (s *AuthService) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

// Register creates an account with the given role. The caller establishes
// the session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, role domain.Role) (*domain.User, error) {
	verr := &ValidationError{}
	if role != domain.RoleBuyer && role != domain.RoleSeller {
		verr.Add("user_type", "Select a valid account type.")
	}
	username, ok := validate.Username(in.Username)
	if !ok {
		verr.Add("username", "Enter a valid username: letters, digits and @/./+/-/_ only.")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		verr.Add("email", "Enter a valid email address.")
	}
	if !validate.Password(in.Password1) {
		verr.Add("password1", "Use 8-64 characters with upper and lower case letters, a digit and a symbol.")
	}
	if in.Password1 != in.Password2 {
		verr.Add("password2", "The two password fields didn't match.")
	}
	if username != "" && verr.Fields["username"] == "" {
		taken, err := s.Users.UsernameTaken(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("username", "A user with that username already exists.")
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), s.cost())
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u := &domain.User{
		Username: username,
		Email:    strings.ToLower(email),
		Hash:     string(hash),
		Role:     role,
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return nil, fieldError("username", "A user with that username already exists.")
		}
		return nil, err
	}
	return u, nil
}

// Login checks the credential. Any mismatch is ErrBadCreds.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrBadCreds
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return u, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.Users.ByID(ctx, id)
}

type ProfileInput struct {
	StoreName string
	Bio       string
}

// CreateSellerProfile records the one-time store profile of a seller.
func (s *AuthService) CreateSellerProfile(ctx context.Context, actor *domain.User, in ProfileInput) (*domain.SellerProfile, error) {
	if !actor.IsSeller() {
		return nil, ErrForbidden
	}
	name, ok := validate.Text(in.StoreName, 100)
	if !ok {
		return nil, fieldError("store_name", "Store name is required (up to 100 characters).")
	}
	p := &domain.SellerProfile{UserID: actor.ID, StoreName: name, Bio: strings.TrimSpace(in.Bio)}
	if err := s.Profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return nil, fieldError("store_name", "Your store profile already exists.")
		}
		return nil, err
	}
	return p, nil
}

func (s *AuthService) HasSellerProfile(ctx context.Context, actor *domain.User) (bool, error) {
	if !actor.IsSeller() {
		return false, ErrForbidden
	}
	_, err := s.Profiles.ByUser(ctx, actor.ID)
	if errors.Is(err, repos.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
