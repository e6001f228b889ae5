package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	auditdomain "github.com/khasm-app/khasm/internal/audit/domain"
	userdomain "github.com/khasm-app/khasm/internal/user/domain"
)

// audit records an action taken through the API. Audit failures never
// fail the request.
func (s *Server) audit(c *gin.Context, action, targetType, targetID string, metadata map[string]any) {
	actorType := auditdomain.ActorTypeCustomer
	if c.GetString(contextKeyRole) == userdomain.RoleAdmin {
		actorType = auditdomain.ActorTypeAdmin
	}

	err := s.auditSvc.Record(c.Request.Context(), auditdomain.Entry{
		ActorType:  actorType,
		ActorID:    c.GetString(contextKeyUserID),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Metadata:   metadata,
	})
	if err != nil {
		s.log.Warn("audit record failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	req := auditdomain.ListAuditLogRequest{
		Action:     c.Query("action"),
		TargetType: c.Query("target_type"),
		TargetID:   c.Query("target_id"),
		ActorType:  c.Query("actor_type"),
	}
	if err := c.ShouldBindQuery(&req.Pagination); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if raw := c.Query("start_at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, newValidationError("start_at", "must be RFC3339"))
			return
		}
		req.StartAt = &parsed
	}
	if raw := c.Query("end_at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, newValidationError("end_at", "must be RFC3339"))
			return
		}
		req.EndAt = &parsed
	}

	resp, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
