package dynamo

// fieldUpdatedAt is appended to every update expression; keeping it a
// constant guards the one attribute name every table shares.
const fieldUpdatedAt = "updated_at"

// reservedWords is the set of canonical attribute names that collide with
// DynamoDB expression keywords and must be referenced through an
// ExpressionAttributeNames alias. Extend here, never at call sites.
var reservedWords = map[string]struct{}{
	"name":     {},
	"status":   {},
	"location": {},
	"size":     {},
	"type":     {},
}

// isReservedWord reports whether attr needs a #alias in update expressions.
func isReservedWord(attr string) bool {
	_, ok := reservedWords[attr]
	return ok
}

// PersonFieldMapping resolves the public camelCase field names of the people
// API to the snake_case attribute names actually persisted. Unknown fields
// fall through verbatim in BuildUpdateExpr.
var PersonFieldMapping = map[string]string{
	"firstName":             "first_name",
	"lastName":              "last_name",
	"email":                 "email",
	"phone":                 "phone",
	"dateOfBirth":           "date_of_birth",
	"address":               "address",
	"isAdmin":               "is_admin",
	"isActive":              "is_active",
	"emailVerified":         "email_verified",
	"requirePasswordChange": "require_password_change",
	"failedLoginAttempts":   "failed_login_attempts",
	"lastPasswordChange":    "last_password_change",
	"lastLoginAt":           "last_login_at",
	"passwordHash":          "password_hash",
	"refreshToken":          "refresh_token",
	"refreshExpiresAt":      "refresh_expires_at",
}

// ProjectFieldMapping resolves project API field names to storage names.
var ProjectFieldMapping = map[string]string{
	"name":                "name",
	"description":         "description",
	"startDate":           "start_date",
	"endDate":             "end_date",
	"registrationEndDate": "registration_end_date",
	"maxParticipants":     "max_participants",
	"status":              "status",
	"category":            "category",
	"location":            "location",
	"requirements":        "requirements",
	"isEnabled":           "is_enabled",
}

// SubscriptionFieldMapping resolves subscription API field names to storage names.
var SubscriptionFieldMapping = map[string]string{
	"status":   "status",
	"isActive": "is_active",
}
