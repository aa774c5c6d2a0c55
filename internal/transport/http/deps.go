package http

import (
	"github.com/people-registry-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/people-registry-api/internal/infrastructure/jwt"
	s3infra "github.com/people-registry-api/internal/infrastructure/s3"
	"github.com/people-registry-api/internal/infrastructure/smtp"
	"github.com/people-registry-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	PersonRepo       *dynamo.PersonRepo
	ProjectRepo      *dynamo.ProjectRepo
	SubscriptionRepo *dynamo.SubscriptionRepo
	LockoutRepo      *dynamo.LockoutRepo
	ResetRepo        *dynamo.ResetRepo
	AuditRepo        *dynamo.AuditRepo
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	Alerts           sns.AlertPublisher
	JWTProvider      *jwtinfra.Provider
}
