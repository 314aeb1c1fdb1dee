package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
	"go.player.tech/internal/platform/view"
	"go.player.tech/internal/platform/view/operations"
)

// onView requires system, or one of perms on the view in the route.
func onView(system authorization.SystemPermission, perms ...authorization.ViewPermission) RequirementFunc {
	return func(r *http.Request) authorization.Requirement {
		return authorization.Requirement{
			System:   []authorization.SystemPermission{system, authorization.ManageViews},
			View:     perms,
			Resource: authorization.Ref(authorization.ResourceView, chi.URLParam(r, "id")),
		}
	}
}

var createViews = Static(authorization.Requirement{
	System: []authorization.SystemPermission{authorization.CreateViews, authorization.ManageViews},
})

// CloneViewRequest is the body of POST /api/views/{id}/clone
type CloneViewRequest struct {
	Name string `json:"name,omitempty"`
}

// ViewHandler handles view endpoints
type ViewHandler struct {
	repo   view.Repository
	guard  *Guard
	logger *slog.Logger

	createUseCase *operations.CreateViewUseCase
	cloneUseCase  *operations.CloneViewUseCase
	deleteUseCase *operations.DeleteViewUseCase
}

// NewViewHandler creates a new view handler
func NewViewHandler(
	repo view.Repository,
	teams team.Repository,
	applications application.Repository,
	memberships membership.Repository,
	users user.Repository,
	teamRoles teamrole.Repository,
	defaults teamrole.Defaults,
	uow common.UnitOfWork,
	guard *Guard,
	logger *slog.Logger,
) *ViewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewHandler{
		repo:          repo,
		guard:         guard,
		logger:        logger,
		createUseCase: operations.NewCreateViewUseCase(users, teamRoles, defaults, uow),
		cloneUseCase:  operations.NewCloneViewUseCase(repo, teams, applications, uow),
		deleteUseCase: operations.NewDeleteViewUseCase(repo, teams, applications, memberships, uow),
	}
}

// Routes returns the router for view endpoints
func (h *ViewHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.guard.Require(createViews)).Post("/", h.Create)
	r.With(h.guard.Require(onView(authorization.ViewViews, authorization.ViewView, authorization.EditView, authorization.ManageView))).Get("/{id}", h.Get)
	r.With(h.guard.Require(onView(authorization.CreateViews, authorization.ManageView))).Post("/{id}/clone", h.Clone)
	r.With(h.guard.Require(onView(authorization.ManageViews, authorization.ManageView))).Delete("/{id}", h.Delete)

	return r
}

// Get handles GET /api/views/{id}
func (h *ViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	WriteLookup(w, h.logger, found, err, common.ErrCodeViewNotFound, "View")
}

// Create handles POST /api/views. The caller becomes the view's creator.
func (h *ViewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd operations.CreateViewCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd.CreatorID = GetPrincipalID(r.Context())

	result := h.createUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusCreated)
}

// Clone handles POST /api/views/{id}/clone
func (h *ViewHandler) Clone(w http.ResponseWriter, r *http.Request) {
	var body CloneViewRequest
	if err := DecodeJSON(r, &body); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd := operations.CloneViewCommand{SourceViewID: chi.URLParam(r, "id"), Name: body.Name}

	result := h.cloneUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusCreated)
}

// Delete handles DELETE /api/views/{id}
func (h *ViewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cmd := operations.DeleteViewCommand{ID: chi.URLParam(r, "id")}

	result := h.deleteUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusOK)
}
