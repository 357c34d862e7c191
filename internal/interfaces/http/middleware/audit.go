package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetclinic/backend/internal/domain/audit"
)

// AuditRecorder stores audit entries. Satisfied by the audit application service.
type AuditRecorder interface {
	Record(ctx context.Context, entry *audit.Entry)
}

// auditErrorKey carries the error message a handler answered with
const auditErrorKey = "audit_error_message"

// SetAuditError remembers why a request failed, for the audit trail
func SetAuditError(c *gin.Context, message string) {
	c.Set(auditErrorKey, message)
}

var methodActions = map[string]string{
	http.MethodPost:   audit.ActionCreate,
	http.MethodPut:    audit.ActionUpdate,
	http.MethodPatch:  audit.ActionUpdate,
	http.MethodDelete: audit.ActionDelete,
}

// AuditFailures records mutating requests that were refused or failed. Successful
// changes are audited by the services themselves once committed.
func AuditFailures(recorder AuditRecorder, modules map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		action, mutating := methodActions[c.Request.Method]
		status := c.Writer.Status()
		if !mutating || status < http.StatusBadRequest {
			return
		}

		outcome := audit.StatusFailed
		if status >= http.StatusInternalServerError {
			outcome = audit.StatusError
		}

		entry := audit.NewEntry(action, moduleFor(c.FullPath(), modules), outcome)
		if id, err := uuid.Parse(GetJWTUserID(c)); err == nil {
			entry.ActorID = &id
		}
		if id, err := uuid.Parse(c.Param("id")); err == nil {
			entry.RecordID = &id
		}
		entry.IPAddress = c.ClientIP()
		entry.UserAgent = c.Request.UserAgent()
		entry.ErrorMessage = c.GetString(auditErrorKey)
		if entry.ErrorMessage == "" {
			entry.ErrorMessage = http.StatusText(status)
		}

		recorder.Record(c.Request.Context(), entry)
	}
}

// moduleFor picks the module of the longest matching route prefix
func moduleFor(route string, modules map[string]string) string {
	best, module := -1, "API"
	for prefix, name := range modules {
		if strings.HasPrefix(route, prefix) && len(prefix) > best {
			best, module = len(prefix), name
		}
	}
	return module
}
