package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/people-registry-api/internal/domain"
	"github.com/people-registry-api/internal/pkg/id"
	pkgtoken "github.com/people-registry-api/internal/pkg/token"
)

// Public API field names used as keys in partial update maps.
const (
	fieldLastLoginAt           = "lastLoginAt"
	fieldPasswordHash          = "passwordHash"
	fieldRefreshToken          = "refreshToken"
	fieldRefreshExpiresAt      = "refreshExpiresAt"
	fieldLastPasswordChange    = "lastPasswordChange"
	fieldRequirePasswordChange = "requirePasswordChange"
)

// LoginResult carries everything the login handler returns to the client.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	Person       *domain.Person
}

type Service interface {
	Login(ctx context.Context, req domain.LoginRequest, sourceIP string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, personID string) error
	ChangePassword(ctx context.Context, personID string, req domain.PasswordChangeRequest) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, req domain.PasswordResetConfirm) error
}

type personStore interface {
	Get(ctx context.Context, personID string) (*domain.Person, error)
	GetByEmail(ctx context.Context, email string) (*domain.Person, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Person, error)
	Update(ctx context.Context, personID string, updates map[string]any) error
}

type lockoutStore interface {
	Get(ctx context.Context, personID string) (*domain.AccountLockout, error)
	Put(ctx context.Context, l *domain.AccountLockout) error
	Clear(ctx context.Context, personID string) error
}

type resetStore interface {
	Put(ctx context.Context, pr *domain.PasswordReset) error
	Get(ctx context.Context, token string) (*domain.PasswordReset, error)
	Delete(ctx context.Context, token string) error
}

type auditStore interface {
	Append(ctx context.Context, e *domain.AuditEvent) error
}

type jwtSigner interface {
	Sign(personID, email string, isAdmin bool) (string, error)
	Expiry() time.Duration
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type alertPublisher interface {
	PublishAlert(ctx context.Context, subject, message string) error
}

// Deps wires the auth service. Alerts and Mailer may be nil; the service
// degrades to logging when they are unavailable.
type Deps struct {
	PersonRepo  personStore
	LockoutRepo lockoutStore
	ResetRepo   resetStore
	AuditRepo   auditStore
	JWTProvider jwtSigner
	Mailer      mailer
	Alerts      alertPublisher

	MaxFailedLogins int
	LockoutDuration time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
}

type service struct {
	deps Deps
}

func NewService(deps Deps) Service {
	if deps.MaxFailedLogins <= 0 {
		deps.MaxFailedLogins = 5
	}
	if deps.LockoutDuration <= 0 {
		deps.LockoutDuration = 30 * time.Minute
	}
	return &service{deps: deps}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest, sourceIP string) (*LoginResult, error) {
	p, err := s.deps.PersonRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same answer as a wrong password so the endpoint can't be used to
		// probe which emails exist.
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !p.IsActive {
		return nil, fmt.Errorf("account is disabled: %w", domain.ErrForbidden)
	}

	locked, until, err := s.checkLockout(ctx, p.PersonID)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, fmt.Errorf("account locked until %s: %w", until.Format(time.RFC3339), domain.ErrLocked)
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		s.recordFailedAttempt(ctx, p, sourceIP)
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	if err := s.deps.LockoutRepo.Clear(ctx, p.PersonID); err != nil {
		slog.Warn("could not clear lockout after successful login", "person_id", p.PersonID, "err", err)
	}

	refreshToken, err := pkgtoken.New()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	err = s.deps.PersonRepo.Update(ctx, p.PersonID, map[string]any{
		fieldLastLoginAt:      now,
		fieldRefreshToken:     refreshToken,
		fieldRefreshExpiresAt: now.Add(s.deps.RefreshTokenTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	access, err := s.deps.JWTProvider.Sign(p.PersonID, p.Email, p.IsAdmin)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, p.PersonID, domain.AuditLoginSuccess, "", sourceIP)
	p.LastLoginAt = &now
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.deps.JWTProvider.Expiry().Seconds()),
		Person:       p,
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("missing refresh token: %w", domain.ErrUnauthorized)
	}
	// Refresh tokens are opaque and single-holder, so the lookup goes
	// through the person carrying the token.
	p, err := s.findByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if time.Now().UTC().Unix() > p.RefreshExpiresAt {
		return nil, fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}

	// Rotate: the old token dies with this call.
	newToken, err := pkgtoken.New()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	err = s.deps.PersonRepo.Update(ctx, p.PersonID, map[string]any{
		fieldRefreshToken:     newToken,
		fieldRefreshExpiresAt: now.Add(s.deps.RefreshTokenTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	access, err := s.deps.JWTProvider.Sign(p.PersonID, p.Email, p.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: newToken,
		ExpiresIn:    int(s.deps.JWTProvider.Expiry().Seconds()),
		Person:       p,
	}, nil
}

func (s *service) Logout(ctx context.Context, personID string) error {
	// Rotate to a token that is never handed out. The attribute is a GSI
	// key, so it cannot be nulled out in place.
	burned, err := pkgtoken.New()
	if err != nil {
		return err
	}
	return s.deps.PersonRepo.Update(ctx, personID, map[string]any{
		fieldRefreshToken:     burned,
		fieldRefreshExpiresAt: int64(0),
	})
}

func (s *service) ChangePassword(ctx context.Context, personID string, req domain.PasswordChangeRequest) error {
	p, err := s.deps.PersonRepo.Get(ctx, personID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = s.deps.PersonRepo.Update(ctx, personID, map[string]any{
		fieldPasswordHash:          string(hash),
		fieldLastPasswordChange:    time.Now().UTC(),
		fieldRequirePasswordChange: false,
	})
	if err != nil {
		return err
	}
	s.audit(ctx, personID, domain.AuditPasswordChange, "", "")
	return nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	p, err := s.deps.PersonRepo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the email exists.
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	tok, err := pkgtoken.New()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	err = s.deps.ResetRepo.Put(ctx, &domain.PasswordReset{
		Token:     tok,
		PersonID:  p.PersonID,
		ExpiresAt: now.Add(s.deps.ResetTokenTTL).Unix(),
		CreatedAt: now,
	})
	if err != nil {
		return err
	}
	if s.deps.Mailer == nil {
		slog.Warn("mailer unavailable, reset token not delivered", "person_id", p.PersonID)
		return nil
	}
	body := fmt.Sprintf("A password reset was requested for your account.\r\n\r\nReset token: %s\r\n\r\nThe token expires in %s.", tok, s.deps.ResetTokenTTL)
	if err := s.deps.Mailer.SendEmail(p.Email, "Password reset", body); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

func (s *service) ConfirmPasswordReset(ctx context.Context, req domain.PasswordResetConfirm) error {
	pr, err := s.deps.ResetRepo.Get(ctx, req.Token)
	if err != nil {
		return fmt.Errorf("invalid or expired reset token: %w", domain.ErrUnauthorized)
	}
	if time.Now().UTC().Unix() > pr.ExpiresAt {
		_ = s.deps.ResetRepo.Delete(ctx, req.Token)
		return fmt.Errorf("invalid or expired reset token: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = s.deps.PersonRepo.Update(ctx, pr.PersonID, map[string]any{
		fieldPasswordHash:       string(hash),
		fieldLastPasswordChange: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	// Token is single use.
	if err := s.deps.ResetRepo.Delete(ctx, req.Token); err != nil {
		slog.Warn("could not delete consumed reset token", "err", err)
	}
	if err := s.deps.LockoutRepo.Clear(ctx, pr.PersonID); err != nil {
		slog.Warn("could not clear lockout after password reset", "person_id", pr.PersonID, "err", err)
	}
	s.audit(ctx, pr.PersonID, domain.AuditPasswordReset, "", "")
	return nil
}

// checkLockout reports whether the account is currently locked. An expired
// lock is cleared in passing.
func (s *service) checkLockout(ctx context.Context, personID string) (bool, time.Time, error) {
	l, err := s.deps.LockoutRepo.Get(ctx, personID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, time.Time{}, nil
		}
		return false, time.Time{}, err
	}
	if l.LockedUntil == nil {
		return false, time.Time{}, nil
	}
	if time.Now().UTC().Before(*l.LockedUntil) {
		return true, *l.LockedUntil, nil
	}
	if err := s.deps.LockoutRepo.Clear(ctx, personID); err != nil {
		slog.Warn("could not clear expired lockout", "person_id", personID, "err", err)
	}
	return false, time.Time{}, nil
}

func (s *service) recordFailedAttempt(ctx context.Context, p *domain.Person, sourceIP string) {
	now := time.Now().UTC()
	l, err := s.deps.LockoutRepo.Get(ctx, p.PersonID)
	if err != nil {
		l = &domain.AccountLockout{
			PersonID:       p.PersonID,
			FirstAttemptAt: now,
		}
	}
	l.FailedAttempts++
	l.LastAttemptAt = now

	if l.FailedAttempts >= s.deps.MaxFailedLogins {
		until := now.Add(s.deps.LockoutDuration)
		l.LockedUntil = &until
		s.audit(ctx, p.PersonID, domain.AuditAccountLocked, fmt.Sprintf("%d failed attempts", l.FailedAttempts), sourceIP)
		s.alert(ctx, p, l)
	} else {
		s.audit(ctx, p.PersonID, domain.AuditLoginFailure, fmt.Sprintf("attempt %d of %d", l.FailedAttempts, s.deps.MaxFailedLogins), sourceIP)
	}

	if err := s.deps.LockoutRepo.Put(ctx, l); err != nil {
		slog.Warn("could not record failed login attempt", "person_id", p.PersonID, "err", err)
	}
}

func (s *service) alert(ctx context.Context, p *domain.Person, l *domain.AccountLockout) {
	if s.deps.Alerts == nil {
		return
	}
	msg := fmt.Sprintf("Account %s locked after %d failed login attempts (until %s).",
		p.Email, l.FailedAttempts, l.LockedUntil.Format(time.RFC3339))
	if err := s.deps.Alerts.PublishAlert(ctx, "Account lockout", msg); err != nil {
		slog.Warn("could not publish lockout alert", "person_id", p.PersonID, "err", err)
	}
}

func (s *service) audit(ctx context.Context, personID, action, detail, sourceIP string) {
	if s.deps.AuditRepo == nil {
		return
	}
	err := s.deps.AuditRepo.Append(ctx, &domain.AuditEvent{
		EventID:   id.New(),
		PersonID:  personID,
		Action:    action,
		Detail:    detail,
		SourceIP:  sourceIP,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("could not append audit event", "action", action, "err", err)
	}
}

func (s *service) findByRefreshToken(ctx context.Context, refreshToken string) (*domain.Person, error) {
	p, err := s.deps.PersonRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", domain.ErrUnauthorized)
	}
	return p, nil
}
