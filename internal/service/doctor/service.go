package doctor

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

const (
	directoryCacheKey = "doctors:directory"
	directoryCacheTTL = 1 * time.Minute
)

// Service serves the public doctor directory patients book from. The
// listing changes rarely, so it sits behind a short cache.
type Service struct {
	repo  repository.DoctorRepository
	cache *gocache.Cache
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(directoryCacheTTL, 2*directoryCacheTTL),
	}
}

func (s *Service) List(ctx context.Context) ([]*model.DoctorListing, error) {
	if cached, ok := s.cache.Get(directoryCacheKey); ok {
		return cached.([]*model.DoctorListing), nil
	}

	listings, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list doctors", err)
	}

	s.cache.SetDefault(directoryCacheKey, listings)
	return listings, nil
}
