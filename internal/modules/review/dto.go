package review

import "accesspoint/internal/domain"

type CreateReviewRequest struct {
	BusinessID  int64  `json:"business_id" binding:"required,gt=0"`
	Rating      int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment     string `json:"comment,omitempty"`
	CategoryTag string `json:"category_tag,omitempty"`
}

type UpdateReviewRequest struct {
	Rating      *int    `json:"rating,omitempty" binding:"omitempty,gte=1,lte=5"`
	Comment     *string `json:"comment,omitempty"`
	CategoryTag *string `json:"category_tag,omitempty"`
}

type OwnerReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// CreatedReview is a review plus the business average refreshed by the
// same transaction.
type CreatedReview struct {
	Review  *domain.Review `json:"review"`
	Average float64        `json:"average_rating"`
}

type LikeStatus struct {
	Count int64 `json:"count"`
	Liked bool  `json:"liked"`
}
