package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dangerclosesec/tracker/internal/model"
)

type CreateOrganizationInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Slug         string `json:"slug" validate:"required,max=50,slug"`
	ContactEmail string `json:"contactEmail" validate:"required,email,max=254"`
}

// CreateOrganization provisions a tenant. Slugs are unique across the store.
func (s *TrackerService) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (*model.Organization, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	input.ContactEmail = strings.TrimSpace(input.ContactEmail)
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	org := &model.Organization{
		Name:         input.Name,
		Slug:         input.Slug,
		ContactEmail: input.ContactEmail,
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	s.record(ctx, model.ActionCreate, model.EntityOrganization, org.ID, map[string]interface{}{
		"name": org.Name,
		"slug": org.Slug,
	})

	return org, nil
}

// ListOrganizations returns every organization ordered by slug.
func (s *TrackerService) ListOrganizations(ctx context.Context) ([]*model.Organization, error) {
	orgs, err := s.orgRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	return orgs, nil
}

// DeleteOrganization removes the organization and, by cascade, everything
// beneath it.
func (s *TrackerService) DeleteOrganization(ctx context.Context, slug string) error {
	org, err := s.orgRepo.FindBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("finding organization: %w", err)
	}

	if err := s.orgRepo.Delete(ctx, org.ID); err != nil {
		return fmt.Errorf("deleting organization: %w", err)
	}

	s.record(ctx, model.ActionDelete, model.EntityOrganization, org.ID, map[string]interface{}{
		"slug": org.Slug,
	})
	return nil
}
