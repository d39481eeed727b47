package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/internal/repo"
	"github.com/Alijeyrad/founders_backend/internal/service/notification"
	"github.com/Alijeyrad/founders_backend/pkg/constants"
	"github.com/Alijeyrad/founders_backend/pkg/events"
	"github.com/Alijeyrad/founders_backend/pkg/util/codes"
	"github.com/Alijeyrad/founders_backend/pkg/util/password"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type LoginRequest struct {
	Email    string
	Password string
}

type CreateAdminRequest struct {
	FullName string
	Username string
	Email    string
	Password string
}

// Profile is what a signed-in user sees about themselves.
type Profile struct {
	User        *repo.User `json:"user"`
	Submissions int        `json:"submissions"`
}

// UserStore is the slice of the repository the account flows need.
// *repo.UserClient satisfies it.
type UserStore interface {
	Create(ctx context.Context, u *repo.User) (int, error)
	Get(ctx context.Context, id int) (*repo.User, error)
	GetByEmail(ctx context.Context, email string) (*repo.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	Verify(ctx context.Context, token string) (*repo.User, error)
	SetRole(ctx context.Context, email, role string) error
	SetPasswordHash(ctx context.Context, id int, hash string) error
}

// SubmissionCounter is satisfied by *repo.SubmissionClient.
type SubmissionCounter interface {
	Count(ctx context.Context, f repo.SubmissionFilter) (int, error)
}

type Config struct {
	AdminEmails []string
	PhoneRegion string
}

func FromCentralConfig(c *config.Config) Config {
	admins := make([]string, 0, len(c.Authorization.AdminEmails))
	for _, e := range c.Authorization.AdminEmails {
		admins = append(admins, strings.ToLower(strings.TrimSpace(e)))
	}
	return Config{AdminEmails: admins, PhoneRegion: strings.ToUpper(c.App.PhoneRegion)}
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Register creates a pending account and queues the verification and
	// welcome emails.
	Register(ctx context.Context, req RegisterRequest) (*repo.User, error)
	// Login checks credentials and returns the user with its effective role.
	Login(ctx context.Context, req LoginRequest) (*repo.User, error)
	Verify(ctx context.Context, token string) (*repo.User, error)
	Profile(ctx context.Context, userID int) (*Profile, error)
	// CreateAdmin creates an admin account, or promotes the existing account
	// with that email.
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (*repo.User, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	users       UserStore
	submissions SubmissionCounter
	hasher      *password.Hasher
	bus         events.Publisher
	validate    *validator.Validate
	cfg         Config
	newToken    func() (string, error)
	now         func() time.Time
	log         *slog.Logger
}

func New(
	users UserStore,
	submissions SubmissionCounter,
	hasher *password.Hasher,
	bus events.Publisher,
	cfg Config,
	log *slog.Logger,
) Service {
	if log == nil {
		log = slog.Default()
	}
	return &authService{
		users:       users,
		submissions: submissions,
		hasher:      hasher,
		bus:         bus,
		validate:    newValidator(cfg.PhoneRegion),
		cfg:         cfg,
		newToken:    codes.GenerateVerificationToken,
		now:         time.Now,
		log:         log,
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*repo.User, error) {
	req = req.sanitize()
	if err := req.validate(s.validate, s.hasher.MinLength()); err != nil {
		return nil, err
	}

	if taken, err := s.users.EmailTaken(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.users.UsernameTaken(ctx, html.EscapeString(req.Username)); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("verification token: %w", err)
	}

	e := req.escaped()
	u := &repo.User{
		FullName:          e.FullName,
		Username:          e.Username,
		Email:             e.Email,
		Phone:             normalizePhone(req.Phone, s.cfg.PhoneRegion),
		DateOfBirth:       e.DateOfBirth,
		Gender:            e.Gender,
		Address:           e.Address,
		Company:           e.Company,
		AccountType:       req.AccountType,
		Role:              constants.RoleMember,
		PasswordHash:      hash,
		VerificationToken: token,
		Status:            constants.UserStatusPending,
		CreatedAt:         s.now().UTC(),
	}

	if _, err := s.users.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "account registered", "user_id", u.ID, "account_type", u.AccountType)
	s.publishRegistered(ctx, u)

	return u, nil
}

func (s *authService) publishRegistered(ctx context.Context, u *repo.User) {
	data, err := json.Marshal(notification.UserRegistered{
		UserID:            u.ID,
		FullName:          u.FullName,
		Username:          u.Username,
		Email:             u.Email,
		VerificationToken: u.VerificationToken,
	})
	if err == nil {
		err = s.bus.Publish(ctx, notification.SubjectUserRegistered, data)
	}
	if err != nil {
		s.log.WarnContext(ctx, "auth: publish user.registered failed", "user_id", u.ID, "err", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func (s *authService) Login(ctx context.Context, req LoginRequest) (*repo.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Verify(u.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.WarnContext(ctx, "auth: unreadable password hash", "user_id", u.ID, "err", err)
		}
		return nil, ErrInvalidCredentials
	}
	s.upgradeHash(ctx, u, req.Password)

	if s.isAdminEmail(u.Email) {
		u.Role = constants.RoleAdmin
	}
	return u, nil
}

// upgradeHash re-hashes bcrypt or outdated Argon2id hashes with the current
// parameters. A failure leaves the old hash in place.
func (s *authService) upgradeHash(ctx context.Context, u *repo.User, plain string) {
	if !s.hasher.NeedsRehash(u.PasswordHash) {
		return
	}
	hash, err := s.hasher.Hash(plain)
	if err == nil {
		err = s.users.SetPasswordHash(ctx, u.ID, hash)
	}
	if err != nil {
		s.log.WarnContext(ctx, "auth: password rehash failed", "user_id", u.ID, "err", err)
		return
	}
	u.PasswordHash = hash
	s.log.InfoContext(ctx, "auth: password hash upgraded", "user_id", u.ID)
}

func (s *authService) isAdminEmail(email string) bool {
	return slices.Contains(s.cfg.AdminEmails, strings.ToLower(email))
}

// ---------------------------------------------------------------------------
// Verify / Profile
// ---------------------------------------------------------------------------

func (s *authService) Verify(ctx context.Context, token string) (*repo.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	u, err := s.users.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("verify user: %w", err)
	}
	s.log.InfoContext(ctx, "email verified", "user_id", u.ID)
	return u, nil
}

func (s *authService) Profile(ctx context.Context, userID int) (*Profile, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if s.isAdminEmail(u.Email) {
		u.Role = constants.RoleAdmin
	}

	n, err := s.submissions.Count(ctx, repo.SubmissionFilter{Email: u.Email})
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	return &Profile{User: u, Submissions: n}, nil
}

// ---------------------------------------------------------------------------
// CreateAdmin
// ---------------------------------------------------------------------------

func (s *authService) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*repo.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, &ValidationError{Fields: map[string]string{"email": "Invalid email address"}}
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.SetRole(ctx, email, constants.RoleAdmin); err != nil {
			return nil, fmt.Errorf("promote user: %w", err)
		}
		existing.Role = constants.RoleAdmin
		s.log.InfoContext(ctx, "account promoted to admin", "user_id", existing.ID)
		return existing, nil
	case !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.CheckLength(req.Password); err != nil {
		return nil, ErrPasswordTooShort
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		name = username
	}

	u := &repo.User{
		FullName:      html.EscapeString(name),
		Username:      html.EscapeString(username),
		Email:         email,
		AccountType:   "member",
		Role:          constants.RoleAdmin,
		PasswordHash:  hash,
		EmailVerified: true,
		Status:        constants.UserStatusActive,
		CreatedAt:     s.now().UTC(),
	}
	if _, err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.log.InfoContext(ctx, "admin account created", "user_id", u.ID)
	return u, nil
}
