package handlers

import (
	"net/http"
	"updoot/internal/middleware"
	"updoot/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type voteRequest struct {
	Direction string `json:"direction"` // "up" or "down"
}

// Vote 对帖子投票
// POST /api/posts/:id/vote
func (h *VoteHandler) Vote(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	post, err := h.votes.Apply(user.ID, postID, req.Direction)
	if err != nil {
		Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}
