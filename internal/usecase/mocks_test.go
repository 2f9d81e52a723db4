package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/brevly/internal/entity"
)

type MockLinkRepository struct {
	mock.Mock
}

func (r *MockLinkRepository) Save(ctx context.Context, originalURL, shortURL string) (*entity.Link, error) {
	args := r.Called(ctx, originalURL, shortURL)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) RetrieveAll(ctx context.Context) ([]entity.Link, error) {
	args := r.Called(ctx)
	links, _ := args.Get(0).([]entity.Link)
	return links, args.Error(1)
}

func (r *MockLinkRepository) RetrieveByAlias(ctx context.Context, shortURL string) ([]entity.Link, error) {
	args := r.Called(ctx, shortURL)
	links, _ := args.Get(0).([]entity.Link)
	return links, args.Error(1)
}

func (r *MockLinkRepository) RetrieveAndUpdateStats(ctx context.Context, shortURL string) (*entity.Link, error) {
	args := r.Called(ctx, shortURL)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) Remove(ctx context.Context, id string) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (s *MockObjectStorage) Put(ctx context.Context, obj entity.Object) error {
	args := s.Called(ctx, obj)
	return args.Error(0)
}
