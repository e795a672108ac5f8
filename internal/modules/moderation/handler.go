package moderation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"accesspoint/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	if protected != nil {
		protected.POST("/reports", h.CreateReport)
	}

	if admin != nil {
		g := admin.Group("/moderation")
		{
			g.GET("/reports/pending", h.ListPending)
			g.GET("/reports/history", h.ListHistory)
			g.POST("/reports/:id/resolve", h.Resolve)
			g.POST("/users/:id/report", h.ReportUser)
			g.GET("/users/:id/strikes", h.StrikeStatus)
			g.GET("/reviews/flagged", h.ListFlagged)
			g.POST("/reviews/:id/settle", h.SettleFlagged)
			g.POST("/reclassify", h.Reclassify)
		}
	}
}

// CreateReport lets any authenticated user (except the author) report a
// review for moderation.
func (h *Handler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	reporterID := c.GetInt64("user_id")
	rep, err := h.svc.CreateReport(c.Request.Context(), reporterID, req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Reason must be between 10 and 500 characters")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Review not found")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot report your own review")
		case ErrConflict:
			response.Error(c, http.StatusConflict, "CONFLICT", "This review already has a pending report")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusCreated, rep)
}

func (h *Handler) Resolve(c *gin.Context) {
	reportID, ok := idParam(c, "Invalid report ID")
	if !ok {
		return
	}

	var req ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	adminID := c.GetInt64("user_id")
	res, err := h.svc.Resolve(c.Request.Context(), reportID, adminID, req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid decision or strike action")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Report not found")
		case ErrConflict:
			response.Error(c, http.StatusConflict, "CONFLICT", "Report is already resolved")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) ListPending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, total, err := h.svc.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reports": items, "total": total})
}

func (h *Handler) ListHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	decision := c.Query("decision")

	items, total, err := h.svc.ListHistory(c.Request.Context(), decision, limit, offset)
	if err != nil {
		if err == ErrValidation {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "decision must be Accepted or Rejected")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"history": items, "total": total})
}

func (h *Handler) ReportUser(c *gin.Context) {
	userID, ok := idParam(c, "Invalid user ID")
	if !ok {
		return
	}

	var req ReportUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	adminID := c.GetInt64("user_id")
	res, err := h.svc.ReportUser(c.Request.Context(), adminID, userID, req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Reason must be between 10 and 500 characters")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) StrikeStatus(c *gin.Context) {
	userID, ok := idParam(c, "Invalid user ID")
	if !ok {
		return
	}

	res, err := h.svc.StrikeStatus(c.Request.Context(), userID)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) ListFlagged(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, total, err := h.svc.ListFlagged(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reviews": items, "total": total})
}

func (h *Handler) SettleFlagged(c *gin.Context) {
	reviewID, ok := idParam(c, "Invalid review ID")
	if !ok {
		return
	}

	var req SettleFlaggedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	rv, err := h.svc.SettleFlagged(c.Request.Context(), reviewID, req.Approve)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid input")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Review not found")
		case ErrConflict:
			response.Error(c, http.StatusConflict, "PENDING_REPORTS", "Review has an open report; resolve it first")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusOK, rv)
}

// Reclassify re-runs the classifiers over the whole review table.
// Maintenance operation for lexicon updates.
func (h *Handler) Reclassify(c *gin.Context) {
	n, err := h.svc.ReclassifyAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reclassified": n})
}

func idParam(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", msg)
		return 0, false
	}
	return id, true
}
