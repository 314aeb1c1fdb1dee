package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go.player.tech/internal/platform/audit"
	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/common"
)

// Reading the audit trail needs ManageRoles or ManageUsers.
var readAudit = Static(authorization.Requirement{System: []authorization.SystemPermission{
	authorization.ManageRoles, authorization.ManageUsers,
}})

// AuditHandler handles audit log endpoints
type AuditHandler struct {
	repo   audit.Repository
	guard  *Guard
	logger *slog.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(repo audit.Repository, guard *Guard, logger *slog.Logger) *AuditHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditHandler{repo: repo, guard: guard, logger: logger}
}

// Routes returns the router for audit endpoints
func (h *AuditHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.guard.Require(readAudit))
	r.Get("/", h.Search)
	r.Get("/{id}", h.Get)
	return r
}

// Search handles GET /api/audit-logs
func (h *AuditHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 0)
	if err != nil {
		WriteUseCaseError(w, common.ValidationError(common.ErrCodeInvalidValue, "page must be a number", nil))
		return
	}
	size, err := intParam(q.Get("pageSize"), audit.DefaultPageSize)
	if err != nil {
		WriteUseCaseError(w, common.ValidationError(common.ErrCodeInvalidValue, "pageSize must be a number", nil))
		return
	}

	result, err := h.repo.Search(r.Context(), audit.Query{
		EntityType:  q.Get("entityType"),
		EntityID:    q.Get("entityId"),
		PrincipalID: q.Get("principalId"),
		Operation:   q.Get("operation"),
		Page:        page,
		PageSize:    size,
	})
	if err != nil {
		h.logger.Error("Failed to search audit logs", "error", err)
		WriteInternalError(w, "Failed to search audit logs")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// Get handles GET /api/audit-logs/{id}
func (h *AuditHandler) Get(w http.ResponseWriter, r *http.Request) {
	log, err := h.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	WriteLookup(w, h.logger, log, err, common.ErrCodeEntityNotFound, "Audit log")
}

func intParam(v string, fallback int) (int, error) {
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
