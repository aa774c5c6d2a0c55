package domain

import "time"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirm struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// AccountLockout tracks failed login attempts per person. A row exists only
// while there is something to count; it is cleared on successful login.
type AccountLockout struct {
	PersonID       string     `json:"personId" dynamodbav:"person_id"`
	FailedAttempts int        `json:"failedAttempts" dynamodbav:"failed_attempts"`
	FirstAttemptAt time.Time  `json:"firstAttemptAt" dynamodbav:"first_attempt_at"`
	LastAttemptAt  time.Time  `json:"lastAttemptAt" dynamodbav:"last_attempt_at"`
	LockedUntil    *time.Time `json:"lockedUntil,omitempty" dynamodbav:"locked_until"`
}

// PasswordReset is a one-time reset token delivered by email.
// The expires_at attribute doubles as the DynamoDB TTL.
type PasswordReset struct {
	Token     string    `json:"-" dynamodbav:"token"`
	PersonID  string    `json:"personId" dynamodbav:"person_id"`
	ExpiresAt int64     `json:"expiresAt" dynamodbav:"expires_at"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// AuditEvent is an append-only record of security-relevant actions.
type AuditEvent struct {
	EventID   string    `json:"id" dynamodbav:"event_id"`
	PersonID  string    `json:"personId" dynamodbav:"person_id"`
	Action    string    `json:"action" dynamodbav:"action"`
	Detail    string    `json:"detail,omitempty" dynamodbav:"detail"`
	SourceIP  string    `json:"sourceIp,omitempty" dynamodbav:"source_ip"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// Audit action names.
const (
	AuditLoginSuccess   = "login_success"
	AuditLoginFailure   = "login_failure"
	AuditAccountLocked  = "account_locked"
	AuditPasswordChange = "password_change"
	AuditPasswordReset  = "password_reset"
	AuditPersonDeleted  = "person_deleted"
)
