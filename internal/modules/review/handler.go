package review

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

func (h *Handler) RegisterRoutes(public, protected, admin *gin.RouterGroup) {
	if public != nil {
		public.GET("/businesses/:id/reviews", h.ForBusiness)
		public.GET("/reviews/:id/likes", h.LikeStatus)
	}

	if protected != nil {
		protected.POST("/reviews", h.Create)
		protected.PATCH("/reviews/:id", h.Update)
		protected.DELETE("/reviews/:id", h.Delete)
		protected.POST("/reviews/:id/reply", h.SetOwnerReply)
		protected.GET("/reviews/mine", h.Mine)
		protected.POST("/reviews/:id/like", h.Like)
		protected.DELETE("/reviews/:id/like", h.Unlike)
	}

	if admin != nil {
		admin.GET("/reviews", h.All)
	}
}

// Create submits a review: one per user per business, classified before
// it is stored.
func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	created, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid input")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
		case ErrConflict:
			response.Error(c, http.StatusConflict, "CONFLICT", "You already reviewed this business")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusCreated, created)
}

func (h *Handler) Update(c *gin.Context) {
	reviewID, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	updated, err := h.svc.Update(c.Request.Context(), reviewID, userID, req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid input")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Review not found")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the author can update a review")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusOK, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	reviewID, ok := idParam(c)
	if !ok {
		return
	}

	userID := c.GetInt64("user_id")
	isAdmin := hasRole(c, "admin")

	avg, err := h.svc.Delete(c.Request.Context(), reviewID, userID, isAdmin)
	if err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Review not found")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the author can delete a review")
		case ErrConflict:
			response.Error(c, http.StatusConflict, "CONFLICT", "Review has an open report; it must be resolved first")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"average_rating": avg})
}

func (h *Handler) SetOwnerReply(c *gin.Context) {
	reviewID, ok := idParam(c)
	if !ok {
		return
	}

	var req OwnerReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	rv, err := h.svc.SetOwnerReply(c.Request.Context(), reviewID, userID, req.Reply)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid input")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Review not found")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this business")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusOK, rv)
}

func (h *Handler) ForBusiness(c *gin.Context) {
	businessID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || businessID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid business ID")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, total, err := h.svc.ForBusiness(c.Request.Context(), businessID, limit, offset)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reviews": items, "total": total})
}

func (h *Handler) Mine(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, total, err := h.svc.Mine(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reviews": items, "total": total})
}

func (h *Handler) All(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, total, err := h.svc.All(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reviews": items, "total": total})
}

func (h *Handler) Like(c *gin.Context) {
	reviewID, ok := idParam(c)
	if !ok {
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.svc.Like(c.Request.Context(), reviewID, userID); err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Review not found")
		case ErrConflict:
			response.Error(c, http.StatusConflict, "CONFLICT", "Already liked")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"liked": true})
}

func (h *Handler) Unlike(c *gin.Context) {
	reviewID, ok := idParam(c)
	if !ok {
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.svc.Unlike(c.Request.Context(), reviewID, userID); err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Like not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"liked": false})
}

func (h *Handler) LikeStatus(c *gin.Context) {
	reviewID, ok := idParam(c)
	if !ok {
		return
	}

	// user_id is zero for anonymous callers; they only get the count
	userID := c.GetInt64("user_id")
	status, err := h.svc.LikeStatus(c.Request.Context(), reviewID, userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, status)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID")
		return 0, false
	}
	return id, true
}

func hasRole(c *gin.Context, role string) bool {
	for _, r := range c.GetStringSlice("roles") {
		if r == role {
			return true
		}
	}
	return false
}
