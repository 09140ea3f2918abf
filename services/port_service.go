package services

import (
	"context"
	"errors"
	"strings"

	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/repositories"
)

// PortServiceError is returned by PortService.
type PortServiceError string

func (e PortServiceError) Error() string { return string(e) }

const ErrPortNotFound PortServiceError = "port not found"

// PortQuery searches the ports reference.
type PortQuery struct {
	queryparams.ListParams
	Country string `query:"country"`
}

// IPortService is the interface for the ports reference.
type IPortService interface {
	Search(ctx context.Context, q PortQuery) (*queryparams.PaginatedResult, error)
	Get(ctx context.Context, locode string) (*models.Port, error)
}

// PortService implements IPortService.
type PortService struct {
	repo repositories.IPortRepository
}

// NewPortService creates a PortService.
func NewPortService(repo repositories.IPortRepository) IPortService {
	return &PortService{repo: repo}
}

func (s *PortService) Search(ctx context.Context, q PortQuery) (*queryparams.PaginatedResult, error) {
	q.ListParams.Validate()
	filter := repositories.PortFilter{Country: strings.TrimSpace(q.Country)}
	ports, total, err := s.repo.Search(ctx, filter, q.ListParams)
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(ports, total, q.ListParams), nil
}

// Get looks a port up by UN/LOCODE, case insensitive.
func (s *PortService) Get(ctx context.Context, locode string) (*models.Port, error) {
	locode = strings.TrimSpace(locode)
	if locode == "" {
		return nil, ErrPortNotFound
	}
	port, err := s.repo.FindByLocode(ctx, locode)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPortNotFound
		}
		return nil, err
	}
	return port, nil
}

var _ IPortService = (*PortService)(nil)
