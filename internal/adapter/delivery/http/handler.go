package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/brevly/internal/entity"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, healthResponse{Status: "ok"})
}

type linkUseCase interface {
	CreateLink(ctx context.Context, originalURL, shortURL string) (*entity.Link, error)
	ListLinks(ctx context.Context) ([]entity.Link, error)
	GetLinksByAlias(ctx context.Context, shortURL string) ([]entity.Link, error)
	ResolveLink(ctx context.Context, shortURL string) (string, error)
	DeleteLink(ctx context.Context, id string) error
}

type exportUseCase interface {
	ExportLinks(ctx context.Context) (*entity.Export, error)
}

type linkMetrics interface {
	LinkCreated()
	LinkRedirected()
	LinksExported(err error)
}

type linkHandler struct {
	linkUseCase   linkUseCase
	exportUseCase exportUseCase
	metrics       linkMetrics
	validate      *validator.Validate
}

func newLinkHandler(
	linkUseCase linkUseCase,
	exportUseCase exportUseCase,
	metrics linkMetrics,
	validate *validator.Validate,
) *linkHandler {
	return &linkHandler{
		linkUseCase:   linkUseCase,
		exportUseCase: exportUseCase,
		metrics:       metrics,
		validate:      validate,
	}
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, serverErrorResponse)
}

func (h *linkHandler) createLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	link, err := h.linkUseCase.CreateLink(r.Context(), req.OriginalURL, req.CustomShortURL)
	if err != nil {
		if errors.Is(err, entity.ErrAliasConflict) {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, aliasConflictResponse)
			return
		}

		serverError(w, r, err)
		return
	}

	h.metrics.LinkCreated()

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toLinkResponse(link))
}

func (h *linkHandler) listLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.linkUseCase.ListLinks(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkResponses(links))
}

func (h *linkHandler) getLinksByAlias(w http.ResponseWriter, r *http.Request) {
	shortURL := chi.URLParam(r, "shortUrl")

	links, err := h.linkUseCase.GetLinksByAlias(r.Context(), shortURL)
	if err != nil {
		serverError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkResponses(links))
}

// resolveLink answers with the original URL instead of a 3xx so the client decides
// how to navigate; every successful call counts one access.
func (h *linkHandler) resolveLink(w http.ResponseWriter, r *http.Request) {
	shortURL := chi.URLParam(r, "shortUrl")

	originalURL, err := h.linkUseCase.ResolveLink(r.Context(), shortURL)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, linkNotFoundResponse)
			return
		}

		serverError(w, r, err)
		return
	}

	h.metrics.LinkRedirected()

	render.Status(r, http.StatusOK)
	render.JSON(w, r, redirectResponse{OriginalURL: originalURL})
}

func (h *linkHandler) deleteLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.linkUseCase.DeleteLink(r.Context(), id); err != nil {
		serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *linkHandler) exportLinks(w http.ResponseWriter, r *http.Request) {
	export, err := h.exportUseCase.ExportLinks(r.Context())
	h.metrics.LinksExported(err)
	if err != nil {
		serverError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, exportResponse{
		FileName:  export.FileName,
		PublicURL: export.PublicURL,
	})
}

// visitLink sends a visitor who opened a short link straight to its original URL.
func (h *linkHandler) visitLink(w http.ResponseWriter, r *http.Request) {
	shortURL := chi.URLParam(r, "shortUrl")

	originalURL, err := h.linkUseCase.ResolveLink(r.Context(), shortURL)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, linkNotFoundResponse)
			return
		}

		serverError(w, r, err)
		return
	}

	h.metrics.LinkRedirected()

	http.Redirect(w, r, originalURL, http.StatusFound)
}
