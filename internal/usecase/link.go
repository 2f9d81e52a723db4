package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadimbarashkov/brevly/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrMaxRetriesExceeded is returned when no free alias could be generated.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating alias")

type linkRepository interface {
	Save(ctx context.Context, originalURL, shortURL string) (*entity.Link, error)
	RetrieveAll(ctx context.Context) ([]entity.Link, error)
	RetrieveByAlias(ctx context.Context, shortURL string) ([]entity.Link, error)
	RetrieveAndUpdateStats(ctx context.Context, shortURL string) (*entity.Link, error)
	Remove(ctx context.Context, id string) error
}

type LinkUseCase struct {
	shortCodeLength int
	linkRepo        linkRepository
}

func NewLinkUseCase(shortCodeLength int, linkRepo linkRepository) *LinkUseCase {
	return &LinkUseCase{
		shortCodeLength: shortCodeLength,
		linkRepo:        linkRepo,
	}
}

// CreateLink stores originalURL under shortURL. An empty shortURL gets a generated alias.
// A taken alias yields entity.ErrAliasConflict from either the lookup or the insert.
func (uc *LinkUseCase) CreateLink(ctx context.Context, originalURL, shortURL string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.CreateLink"

	if originalURL == "" {
		return nil, fmt.Errorf("%s: original url is empty: %w", op, entity.ErrInvalidLink)
	}

	if shortURL == "" {
		return uc.createWithGeneratedAlias(ctx, originalURL)
	}

	existing, err := uc.linkRepo.RetrieveByAlias(ctx, shortURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to check alias: %w", op, err)
	}

	if len(existing) > 0 {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasConflict)
	}

	link, err := uc.linkRepo.Save(ctx, originalURL, shortURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create link: %w", op, err)
	}

	return link, nil
}

func (uc *LinkUseCase) createWithGeneratedAlias(ctx context.Context, originalURL string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.createWithGeneratedAlias"
	const maxRetries = 5

	length := uc.shortCodeLength

	for i := 0; i < maxRetries; i++ {
		shortURL, err := gonanoid.New(length)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate alias: %w", op, err)
		}

		link, err := uc.linkRepo.Save(ctx, originalURL, shortURL)
		if err != nil {
			if errors.Is(err, entity.ErrAliasConflict) {
				length++
				continue
			}

			return nil, fmt.Errorf("%s: failed to create link: %w", op, err)
		}

		return link, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// ListLinks returns every link, newest first.
func (uc *LinkUseCase) ListLinks(ctx context.Context) ([]entity.Link, error) {
	const op = "usecase.LinkUseCase.ListLinks"

	links, err := uc.linkRepo.RetrieveAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return links, nil
}

// GetLinksByAlias returns the links matching shortURL; no match is an empty result, not an error.
func (uc *LinkUseCase) GetLinksByAlias(ctx context.Context, shortURL string) ([]entity.Link, error) {
	const op = "usecase.LinkUseCase.GetLinksByAlias"

	links, err := uc.linkRepo.RetrieveByAlias(ctx, shortURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get links: %w", op, err)
	}

	return links, nil
}

// ResolveLink counts one access to shortURL and returns its original URL.
func (uc *LinkUseCase) ResolveLink(ctx context.Context, shortURL string) (string, error) {
	const op = "usecase.LinkUseCase.ResolveLink"

	link, err := uc.linkRepo.RetrieveAndUpdateStats(ctx, shortURL)
	if err != nil {
		return "", fmt.Errorf("%s: failed to resolve alias: %w", op, err)
	}

	return link.OriginalURL, nil
}

func (uc *LinkUseCase) DeleteLink(ctx context.Context, id string) error {
	const op = "usecase.LinkUseCase.DeleteLink"

	if err := uc.linkRepo.Remove(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	return nil
}
