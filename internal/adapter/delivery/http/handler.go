package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/vadimbarashkov/link-shortener/internal/entity"
	"github.com/vadimbarashkov/link-shortener/internal/usecase"
	"github.com/vadimbarashkov/link-shortener/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type linkUseCase interface {
	CreateLink(ctx context.Context, identity entity.Identity, params usecase.CreateLinkParams) (*entity.Link, error)
	ResolveAlias(ctx context.Context, alias string) (*entity.Link, error)
	ListLinks(ctx context.Context, identity entity.Identity) ([]*entity.Link, error)
	UpdateLink(ctx context.Context, identity entity.Identity, id uuid.UUID, params usecase.UpdateLinkParams) (*entity.Link, error)
	DeleteLink(ctx context.Context, identity entity.Identity, id uuid.UUID) (*entity.Link, error)
}

type linkHandler struct {
	useCase linkUseCase
	baseURL string
	appURL  string
}

func newLinkHandler(useCase linkUseCase, baseURL, appURL string) *linkHandler {
	return &linkHandler{
		useCase: useCase,
		baseURL: baseURL,
		appURL:  strings.TrimRight(appURL, "/"),
	}
}

func renderErrorResponse(w http.ResponseWriter, r *http.Request, resp response.ErrorResponse) {
	render.Status(r, resp.StatusCode)
	render.JSON(w, r, resp)
}

// decodeJSON reads the request body into v and renders a 400 response when it
// is empty or malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		if errors.Is(err, io.EOF) {
			renderErrorResponse(w, r, response.EmptyRequestBodyResponse)
			return false
		}

		renderErrorResponse(w, r, response.InvalidRequestBodyResponse)
		return false
	}

	return true
}

// parseID reads the link id path parameter and renders a 400 response when it
// is not a UUID.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, response.NewErrorResponse(
			http.StatusBadRequest,
			response.ValidationError("id", "Invalid URL id."),
		))
		return uuid.Nil, false
	}

	return id, true
}

// renderError maps use case errors to error documents. Unexpected errors are
// attached to the request log and rendered as a generic 500.
func renderError(w http.ResponseWriter, r *http.Request, err error, id, alias, action string) {
	var vErr *entity.ValidationError

	switch {
	case errors.As(err, &vErr):
		errs := make([]response.Error, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			errs = append(errs, response.ValidationError(f.Field, f.Message))
		}
		renderErrorResponse(w, r, response.NewErrorResponse(http.StatusBadRequest, errs...))
	case errors.Is(err, entity.ErrUnauthenticated):
		renderErrorResponse(w, r, response.UnauthorizedResponse)
	case errors.Is(err, entity.ErrForbidden):
		renderErrorResponse(w, r, response.NewErrorResponse(http.StatusForbidden, response.ForbiddenError(action)))
	case errors.Is(err, entity.ErrLinkNotFound):
		renderErrorResponse(w, r, response.NewErrorResponse(http.StatusNotFound, response.NotFoundError(id)))
	case errors.Is(err, entity.ErrAliasExists):
		renderErrorResponse(w, r, response.NewErrorResponse(http.StatusConflict, response.ConflictError(alias)))
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		renderErrorResponse(w, r, response.ServerErrorResponse)
	}
}

func (h *linkHandler) createLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest

	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.useCase.CreateLink(r.Context(), identityFrom(r, req.Fingerprint), usecase.CreateLinkParams{
		URL:   req.URL,
		Alias: req.Alias,
	})
	if err != nil {
		renderError(w, r, err, "", req.Alias, "create")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toCreatedLinkResponse(h.baseURL, link))
}

func (h *linkHandler) listLinks(w http.ResponseWriter, r *http.Request) {
	fingerprint := r.URL.Query().Get("fingerprint")

	links, err := h.useCase.ListLinks(r.Context(), identityFrom(r, fingerprint))
	if err != nil {
		renderError(w, r, err, "", "", "list")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkListResponse(h.baseURL, links))
}

func (h *linkHandler) updateLink(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateLinkRequest

	if !decodeJSON(w, r, &req) {
		return
	}

	var alias string
	if req.Alias != nil {
		alias = *req.Alias
	}

	link, err := h.useCase.UpdateLink(r.Context(), identityFrom(r, ""), id, usecase.UpdateLinkParams{
		URL:   req.URL,
		Alias: req.Alias,
	})
	if err != nil {
		renderError(w, r, err, id.String(), alias, "modify")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toUpdatedLinkResponse(h.baseURL, link))
}

func (h *linkHandler) deleteLink(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r, "")
	if identity.Anonymous() {
		renderErrorResponse(w, r, response.UnauthorizedResponse)
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	link, err := h.useCase.DeleteLink(r.Context(), identity, id)
	if err != nil {
		renderError(w, r, err, id.String(), "", "delete")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toDeletedLinkResponse(link))
}

// redirect sends the client to the alias target. Unknown aliases and failures
// go to the client application's not-found page.
func (h *linkHandler) redirect(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	link, err := h.useCase.ResolveAlias(r.Context(), alias)
	if err != nil {
		if !errors.Is(err, entity.ErrLinkNotFound) {
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		}

		http.Redirect(w, r, h.appURL+"/not-found", http.StatusFound)
		return
	}

	http.Redirect(w, r, link.OriginalURL, http.StatusFound)
}
