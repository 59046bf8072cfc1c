package models

import "time"

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

type Review struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId,omitempty"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	Status    string    `json:"status"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// Visible reports whether the review passed moderation.
func (r Review) Visible() bool {
	return r.Status == ReviewApproved && r.Verified
}

type CreateReviewRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

type ReviewStatusRequest struct {
	Status   string `json:"status" binding:"required,oneof=pending approved rejected"`
	Verified bool   `json:"verified"`
}

type ReviewsResponse struct {
	Data []Review `json:"data"`
}
