package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"trailblaze/internal/app/commands"
	"trailblaze/internal/app/dto"
	"trailblaze/internal/app/forms"
	reviewapp "trailblaze/internal/app/reviews"
)

type ReviewHTTP interface {
	Post(c *gin.Context)
	Delete(c *gin.Context)
}

type ReviewHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

type postReviewRequest struct {
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

func (h ReviewHandler) Post(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews: commands unavailable"})
		return
	}
	var req postReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := reviewapp.PostReviewCommand{
		CampgroundID: c.Param("id"),
		AuthorID:     p.ID,
		Form:         forms.ReviewForm{Body: req.Body, Rating: req.Rating},
	}
	review, err := commands.Dispatch[reviewapp.PostReviewCommand, *dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h ReviewHandler) Delete(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews: commands unavailable"})
		return
	}

	cmd := reviewapp.DeleteReviewCommand{
		CampgroundID: c.Param("id"),
		ReviewID:     c.Param("reviewId"),
		ActorID:      p.ID,
	}
	if _, err := commands.Dispatch[reviewapp.DeleteReviewCommand, *struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ReviewHandler) handleError(c *gin.Context, err error) {
	status := statusForError(err)
	if h.Logger != nil {
		fields := []any{"status", status, "error", err, "path", c.FullPath()}
		if p, ok := currentPrincipal(c); ok {
			fields = append(fields, "actor_id", p.ID)
		}
		h.Logger.Warn("review request failed", fields...)
	}
	respondError(c, status, err)
}

var _ ReviewHTTP = ReviewHandler{}
