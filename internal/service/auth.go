package service

import (
	"context"
	"errors"

	"github.com/balmandal/community-api/internal/auth"
	"github.com/balmandal/community-api/internal/hash"
	"github.com/balmandal/community-api/internal/logging"
	"github.com/balmandal/community-api/internal/models"
	"github.com/balmandal/community-api/internal/store"
)

var (
	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike, so login failures never reveal which half was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// BootstrapAdminID is the synthetic subject id used by the bootstrap
// fallback. It never collides with an ObjectID hex.
const BootstrapAdminID = "env-admin"

// BootstrapAdmin is the environment-configured fallback credential pair.
type BootstrapAdmin struct {
	Email    string
	Password string
}

func (b BootstrapAdmin) Configured() bool {
	return b.Email != "" && b.Password != ""
}

// UserStore is the persistence surface the auth flow needs.
type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService owns the login and registration flows.
type AuthService struct {
	Users     UserStore
	Tokens    *auth.TokenService
	Bootstrap BootstrapAdmin
}

// RegisterInput is the profile collected at sign-up.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Age          int
	GuardianName string
	Mandal       string
}

// LoginResult pairs a session token with the public identity view.
type LoginResult struct {
	Token string
	User  models.UserView
}

func bootstrapView(email string) models.UserView {
	return models.UserView{
		ID:    BootstrapAdminID,
		Name:  "Super Admin",
		Email: email,
		Role:  string(auth.RoleSuperAdmin),
	}
}

// Login checks credentials against the stored identity. The bootstrap pair
// is consulted only when the store holds no account for the email; a stored
// account always shadows it, even when its password check fails.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return s.loginBootstrap(ctx, email, password)
	}
	if err != nil {
		l.Error("login lookup failed", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.Password, password) {
		l.Warn("login rejected", "reason", "credential mismatch")
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID.Hex(), auth.Role(user.Role))
	if err != nil {
		l.Error("token issue failed", "error", err)
		return nil, err
	}

	l.Info("login ok", "user", user.ID.Hex(), "role", user.Role)
	return &LoginResult{Token: token, User: user.View()}, nil
}

// loginBootstrap grants superadmin for an exact match on the configured
// pair. No stored hash exists, so the comparison is string equality.
func (s *AuthService) loginBootstrap(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if !s.Bootstrap.Configured() || email != s.Bootstrap.Email || password != s.Bootstrap.Password {
		l.Warn("login rejected", "reason", "credential mismatch")
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(BootstrapAdminID, auth.RoleSuperAdmin)
	if err != nil {
		l.Error("token issue failed", "error", err)
		return nil, err
	}

	l.Info("bootstrap admin login ok")
	return &LoginResult{Token: token, User: bootstrapView(s.Bootstrap.Email)}, nil
}

// Register persists a new identity with the default member role and logs
// them straight in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("password hash failed", "error", err)
		return nil, err
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		Password:     pwHash,
		Phone:        in.Phone,
		Age:          in.Age,
		GuardianName: in.GuardianName,
		Mandal:       in.Mandal,
		Role:         string(auth.RoleUser),
	}

	if err := s.Users.Insert(ctx, &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			l.Warn("register rejected", "reason", "email taken")
			return nil, ErrEmailTaken
		}
		l.Error("register insert failed", "error", err)
		return nil, err
	}

	token, err := s.Tokens.Issue(user.ID.Hex(), auth.RoleUser)
	if err != nil {
		l.Error("token issue failed", "error", err)
		return nil, err
	}

	l.Info("register ok", "user", user.ID.Hex())
	return &LoginResult{Token: token, User: user.View()}, nil
}

// Me resolves the authenticated subject into its public view.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserView, error) {
	if userID == BootstrapAdminID {
		v := bootstrapView(s.Bootstrap.Email)
		return &v, nil
	}

	user, err := s.Users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	v := user.View()
	return &v, nil
}
