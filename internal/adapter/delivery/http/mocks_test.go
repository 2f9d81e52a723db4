package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/brevly/internal/entity"
)

type MockLinkUseCase struct {
	mock.Mock
}

func (uc *MockLinkUseCase) CreateLink(ctx context.Context, originalURL, shortURL string) (*entity.Link, error) {
	args := uc.Called(ctx, originalURL, shortURL)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (uc *MockLinkUseCase) ListLinks(ctx context.Context) ([]entity.Link, error) {
	args := uc.Called(ctx)
	links, _ := args.Get(0).([]entity.Link)
	return links, args.Error(1)
}

func (uc *MockLinkUseCase) GetLinksByAlias(ctx context.Context, shortURL string) ([]entity.Link, error) {
	args := uc.Called(ctx, shortURL)
	links, _ := args.Get(0).([]entity.Link)
	return links, args.Error(1)
}

func (uc *MockLinkUseCase) ResolveLink(ctx context.Context, shortURL string) (string, error) {
	args := uc.Called(ctx, shortURL)
	return args.String(0), args.Error(1)
}

func (uc *MockLinkUseCase) DeleteLink(ctx context.Context, id string) error {
	args := uc.Called(ctx, id)
	return args.Error(0)
}

type MockExportUseCase struct {
	mock.Mock
}

func (uc *MockExportUseCase) ExportLinks(ctx context.Context) (*entity.Export, error) {
	args := uc.Called(ctx)
	export, _ := args.Get(0).(*entity.Export)
	return export, args.Error(1)
}
