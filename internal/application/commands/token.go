package commands

import (
	"context"
	"fmt"
	"time"

	"wpkirby/internal/application"
	"wpkirby/internal/ports"
)

// MaxTokenTTL caps the lifetime of a run token
const MaxTokenTTL = 7 * 24 * time.Hour

// IssueTokenResult contains a freshly issued run token
type IssueTokenResult struct {
	Token     string
	ExpiresAt time.Time
	Message   string
}

// IssueTokenCommand mints a run token
type IssueTokenCommand struct {
	auth ports.Authorizer
	TTL  time.Duration
}

// NewIssueTokenCommand creates a new IssueTokenCommand
func NewIssueTokenCommand(auth ports.Authorizer, ttl time.Duration) *IssueTokenCommand {
	return &IssueTokenCommand{
		auth: auth,
		TTL:  ttl,
	}
}

// Validate checks the requested lifetime
func (c *IssueTokenCommand) Validate() error {
	if c.TTL <= 0 {
		return &application.ValidationError{
			Field:   "ttl",
			Message: "token lifetime must be positive",
		}
	}
	if c.TTL > MaxTokenTTL {
		return &application.ValidationError{
			Field:   "ttl",
			Message: fmt.Sprintf("token lifetime may not exceed %s", MaxTokenTTL),
		}
	}
	return nil
}

// Execute issues the token
func (c *IssueTokenCommand) Execute(ctx context.Context) (*IssueTokenResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	expires := time.Now().Add(c.TTL)
	token, err := c.auth.Issue(c.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &IssueTokenResult{
		Token:     token,
		ExpiresAt: expires,
		Message:   fmt.Sprintf("Token valid until %s", expires.Format(time.RFC3339)),
	}, nil
}
