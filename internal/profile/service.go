// Package profile exposes the account-profile operations backed by the users
// endpoints.
package profile

import (
	"context"
	"fmt"

	"github.com/angelmondragon/packfinderz-storefront/internal/apiclient"
	"github.com/angelmondragon/packfinderz-storefront/internal/forms"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// Accounts is the slice of the API client the service depends on.
type Accounts interface {
	GetUser(ctx context.Context, id string) (*types.User, error)
	UpdateUser(ctx context.Context, id string, input apiclient.UpdateUserInput) (*types.User, error)
}

// Service validates and forwards profile operations.
type Service struct {
	api  Accounts
	logg *logger.Logger
}

// NewService builds the profile service.
func NewService(api Accounts, logg *logger.Logger) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("accounts client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{api: api, logg: logg}, nil
}

// Get loads the profile for the given user.
func (s *Service) Get(ctx context.Context, userID string) (*types.User, error) {
	return s.api.GetUser(ctx, userID)
}

// Update validates the form and saves the changed fields.
func (s *Service) Update(ctx context.Context, userID string, form forms.Profile) (*types.User, error) {
	if err := forms.Validate(form); err != nil {
		return nil, err
	}
	return s.api.UpdateUser(ctx, userID, apiclient.UpdateUserInput{
		Name:   form.Name,
		Email:  form.Email,
		Avatar: form.Avatar,
	})
}
