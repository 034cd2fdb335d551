package services

import (
	"go.uber.org/zap"
)

// auditService writes audit events as structured log entries.
type auditService struct {
	log *zap.SugaredLogger
}

// NewAuditService creates a new AuditServicer that writes to log.
func NewAuditService(log *zap.SugaredLogger) AuditServicer {
	return &auditService{log: log}
}

// Log records an audit event. It never fails the calling operation.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	fields := []interface{}{
		"user_id", userID,
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
		"ip_address", ipAddress,
	}
	if len(changes) > 0 {
		fields = append(fields, "changes", changes)
	}
	s.log.Infow("audit", fields...)
}
