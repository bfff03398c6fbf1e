package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"classifieds-bot-backend/internal/common/apperr"
	"classifieds-bot-backend/internal/domain"
)

func (s *Server) health(c *gin.Context) {
	if err := s.db.HealthCheck(c.Request.Context()); err != nil {
		s.log.Error().Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type referralCheckRequest struct {
	TelegramID int64 `json:"telegramId" binding:"required"`
}

type referralCheckResponse struct {
	RewardPaid bool `json:"rewardPaid"`
}

// referralCheck pays the referrer of the given user if a reward is still
// due. The call is idempotent.
func (s *Server) referralCheck(c *gin.Context) {
	var req referralCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	paid, err := s.referrals.CreditIfApplicable(c.Request.Context(), req.TelegramID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, referralCheckResponse{RewardPaid: paid})
}

type moderationRequest struct {
	ListingID           int64  `json:"listingId" binding:"required"`
	Action              string `json:"action" binding:"required"`
	Reason              string `json:"reason"`
	ModeratorTelegramID int64  `json:"moderatorTelegramId" binding:"required"`
}

// moderate lets the web moderation surface decide marketplace listings. The
// same state machine runs underneath, so double decisions and unpaid
// listings are rejected here too.
func (s *Server) moderate(c *gin.Context) {
	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	moderator, err := s.users.GetByExternalID(ctx, req.ModeratorTelegramID)
	if err != nil {
		s.fail(c, err)
		return
	}

	switch strings.ToLower(req.Action) {
	case "approve":
		err = s.lifecycle.Approve(ctx, req.ListingID, moderator.ID)
	case "reject":
		if strings.TrimSpace(req.Reason) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reason is required for reject"})
			return
		}
		err = s.lifecycle.Reject(ctx, req.ListingID, moderator.ID, req.Reason)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be approve or reject"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps application error kinds onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case apperr.IsKind(err, apperr.KindInputInvalid):
		status = http.StatusBadRequest
	case apperr.IsKind(err, apperr.KindNotFound):
		status = http.StatusNotFound
	case apperr.IsKind(err, apperr.KindPermissionDenied):
		status = http.StatusForbidden
	case apperr.IsKind(err, apperr.KindPreconditionFailed):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	s.log.Error().Err(err).Int("status", status).Msg("Request failed")
	c.JSON(status, gin.H{"error": apperr.MsgKeyOf(err)})
}
