// Package handler serves the people directory over HTTP: the card page and its JSON API.
package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"userdir/internal/directory/filter"
	"userdir/internal/directory/models"
	"userdir/internal/directory/service"
	"userdir/internal/directory/source"
	"userdir/internal/platform/middleware"
	dErrors "userdir/pkg/domain-errors"
	"userdir/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

// Service is the directory state the handler reads from.
type Service interface {
	Snapshot() models.Snapshot
	Visible(surface service.Surface, c models.FilterCriteria) []models.UserRecord
}

// Handler handles the directory page and API endpoints.
type Handler struct {
	logger    *slog.Logger
	directory Service
}

// New creates a new directory Handler.
func New(directory Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		directory: directory,
	}
}

// Register registers the directory routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleIndex)
	r.Get("/api/users", h.HandleListUsers)
	r.Get("/api/nationalities", h.HandleListNationalities)
	r.Get("/api/status", h.HandleStatus)
}

// HandleIndex renders the card page. While the directory is loading only the
// loading indicator is shown and the page refreshes itself.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	params := filter.ParamsFromQuery(r.URL.Query())
	params.Normalize()
	snap := h.directory.Snapshot()
	loc := LocaleFromRequest(r)

	page := pageData{
		Params:         params,
		Nationalities:  snap.Nationalities.Values(),
		Loading:        snap.Loading(),
		RefreshSeconds: loadingRefreshSeconds,
		Locale:         loc.Tag.String(),
		Total:          len(snap.Records),
	}

	status := http.StatusOK
	criteria, err := filter.ParseCriteria(params)
	switch {
	case err != nil:
		h.logger.WarnContext(ctx, "invalid directory filter",
			"request_id", requestID,
			"error", err,
		)
		status = httputil.DomainCodeToHTTPStatus(codeOf(err))
		page.Error = messageOf(err)
	case !page.Loading:
		page.Cards = newCards(h.directory.Visible(service.SurfacePage, criteria), loc)
		page.Count = len(page.Cards)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(ctx, "failed to render directory page",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render page"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", loc.Tag.String())
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// HandleListUsers returns the visible records for the query criteria as JSON.
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	criteria, err := filter.ParseCriteria(filter.ParamsFromQuery(r.URL.Query()))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid directory filter",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	snap := h.directory.Snapshot()
	res := ListUsersResponse{
		Status: string(snap.Status),
		Total:  len(snap.Records),
		Users:  []UserResponse{},
	}
	if !snap.Loading() {
		res.Users = toUserResponses(h.directory.Visible(service.SurfaceAPI, criteria))
	}
	res.Count = len(res.Users)

	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleListNationalities returns the distinct nationalities of the loaded records.
func (h *Handler) HandleListNationalities(w http.ResponseWriter, _ *http.Request) {
	snap := h.directory.Snapshot()
	httputil.WriteJSON(w, http.StatusOK, NationalitiesResponse{
		Nationalities: snap.Nationalities.Values(),
	})
}

// HandleStatus reports the load state of the directory.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := h.directory.Snapshot()
	res := StatusResponse{
		Status:      string(snap.Status),
		RecordCount: len(snap.Records),
	}
	if !snap.LoadedAt.IsZero() {
		loadedAt := snap.LoadedAt.UTC().Format(time.RFC3339)
		res.LoadedAt = &loadedAt
	}
	if snap.LoadError != nil {
		loadErr := source.ToDomainError(snap.LoadError)
		res.LoadError = messageOf(loadErr)
		res.LoadErrorCode = string(codeOf(loadErr))
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func codeOf(err error) dErrors.Code {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return dErrors.CodeInternal
}

func messageOf(err error) string {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "invalid filter"
}
