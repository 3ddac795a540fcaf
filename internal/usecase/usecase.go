package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vadimbarashkov/link-shortener/internal/entity"
)

type linkRepository interface {
	Create(ctx context.Context, link *entity.Link) (*entity.Link, error)
	ExistsByAlias(ctx context.Context, alias string) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Link, error)
	GetByAlias(ctx context.Context, alias string) (*entity.Link, error)
	ListByOwner(ctx context.Context, owner entity.Owner) ([]*entity.Link, error)
	Update(ctx context.Context, link *entity.Link) (*entity.Link, error)
	IncrementVisits(ctx context.Context, alias string) (*entity.Link, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type previewFetcher interface {
	PreviewImage(ctx context.Context, pageURL string) (string, bool)
}

// CreateLinkParams holds the caller supplied fields of a new link.
type CreateLinkParams struct {
	URL   string
	Alias string // Alias is optional; a unique one is generated when empty.
}

// UpdateLinkParams holds the fields to change. A nil or empty URL keeps the
// current target. A nil or empty Alias replaces the alias with a generated one.
type UpdateLinkParams struct {
	URL   *string
	Alias *string
}

type LinkUseCase struct {
	repo     linkRepository
	preview  previewFetcher
	aliases  *AliasGenerator
	validate *validator.Validate
	logger   *slog.Logger
}

func New(repo linkRepository, preview previewFetcher, aliases *AliasGenerator, logger *slog.Logger) *LinkUseCase {
	if aliases == nil {
		aliases = NewAliasGenerator(defaultAliasLength, defaultMaxAliasAttempts)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LinkUseCase{
		repo:     repo,
		preview:  preview,
		aliases:  aliases,
		validate: newValidate(),
		logger:   logger,
	}
}

func (uc *LinkUseCase) CreateLink(ctx context.Context, identity entity.Identity, params CreateLinkParams) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.CreateLink"

	input := createLinkInput{
		URL:         params.URL,
		Alias:       params.Alias,
		Fingerprint: identity.Fingerprint,
	}

	if err := uc.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%s: %w", op, toValidationError(err))
	}

	generated := params.Alias == ""
	alias := params.Alias

	if generated {
		var err error

		alias, err = uc.aliases.AllocateUnique(ctx, uc.repo)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to allocate alias: %w", op, err)
		}
	} else {
		exists, err := uc.repo.ExistsByAlias(ctx, alias)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to check alias: %w", op, err)
		}

		if exists {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasExists)
		}
	}

	link := &entity.Link{
		OriginalURL:  params.URL,
		Alias:        alias,
		Owner:        identity.Owner(),
		PreviewImage: uc.previewImage(ctx, params.URL),
	}

	created, err := uc.saveWithAlias(ctx, link, generated, uc.repo.Create)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create link: %w", op, err)
	}

	return created, nil
}

// ResolveAlias counts a visit and returns the link the alias points to.
func (uc *LinkUseCase) ResolveAlias(ctx context.Context, alias string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.ResolveAlias"

	if !isValidAlias(alias) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	link, err := uc.repo.IncrementVisits(ctx, alias)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve alias: %w", op, err)
	}

	return link, nil
}

// ListLinks returns the caller's links, newest first. Callers without any
// identity get an empty list.
func (uc *LinkUseCase) ListLinks(ctx context.Context, identity entity.Identity) ([]*entity.Link, error) {
	const op = "usecase.LinkUseCase.ListLinks"

	owner := identity.Owner()
	if owner.IsNone() {
		return []*entity.Link{}, nil
	}

	links, err := uc.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return links, nil
}

func (uc *LinkUseCase) UpdateLink(ctx context.Context, identity entity.Identity, id uuid.UUID, params UpdateLinkParams) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.UpdateLink"

	if err := uc.validate.Struct(updateLinkInput(params)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, toValidationError(err))
	}

	link, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	if ownerID, ok := link.Owner.UserID(); ok && ownerID != identity.UserID {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrForbidden)
	}

	if params.URL != nil && *params.URL != "" {
		link.OriginalURL = *params.URL
	}

	generated := params.Alias == nil || *params.Alias == ""

	if generated {
		alias, err := uc.aliases.AllocateUnique(ctx, uc.repo)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to allocate alias: %w", op, err)
		}

		link.Alias = alias
	} else {
		alias := *params.Alias

		existing, err := uc.repo.GetByAlias(ctx, alias)
		switch {
		case err == nil && existing.ID != link.ID:
			return nil, fmt.Errorf("%s: %w", op, entity.ErrAliasExists)
		case err != nil && !errors.Is(err, entity.ErrLinkNotFound):
			return nil, fmt.Errorf("%s: failed to check alias: %w", op, err)
		}

		link.Alias = alias
	}

	updated, err := uc.saveWithAlias(ctx, link, generated, uc.repo.Update)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update link: %w", op, err)
	}

	return updated, nil
}

// DeleteLink removes a link owned by the authenticated caller and returns the
// removed link.
func (uc *LinkUseCase) DeleteLink(ctx context.Context, identity entity.Identity, id uuid.UUID) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.DeleteLink"

	if identity.Anonymous() {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrUnauthenticated)
	}

	link, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	if ownerID, ok := link.Owner.UserID(); !ok || ownerID != identity.UserID {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrForbidden)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	return link, nil
}

func (uc *LinkUseCase) previewImage(ctx context.Context, pageURL string) *string {
	if uc.preview == nil {
		return nil
	}

	img, ok := uc.preview.PreviewImage(ctx, pageURL)
	if !ok {
		return nil
	}

	return &img
}

// saveWithAlias stores link through save. When the alias was generated and
// loses a race on the storage unique constraint, a new alias is allocated
// and the save is retried.
func (uc *LinkUseCase) saveWithAlias(
	ctx context.Context,
	link *entity.Link,
	generated bool,
	save func(context.Context, *entity.Link) (*entity.Link, error),
) (*entity.Link, error) {
	for attempt := 1; ; attempt++ {
		saved, err := save(ctx, link)
		if err == nil {
			return saved, nil
		}

		if !generated || !errors.Is(err, entity.ErrAliasExists) {
			return nil, err
		}

		if attempt >= uc.aliases.maxAttempts {
			return nil, entity.ErrAllocationExhausted
		}

		uc.logger.Warn("generated alias taken on save, retrying",
			slog.String("alias", link.Alias),
			slog.Int("attempt", attempt),
		)

		alias, err := uc.aliases.AllocateUnique(ctx, uc.repo)
		if err != nil {
			return nil, err
		}

		link.Alias = alias
	}
}
