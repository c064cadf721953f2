// Package audit records the append-only operation log every mutating
// endpoint writes to.
package audit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/transport/middleware"
)

// Entry is one operation-log row. Rows are never updated; they are only
// purged in bulk by age.
type Entry struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	UserID     *int64    `json:"user_id" gorm:"column:user_id"`
	Action     string    `json:"action" gorm:"column:action"`
	Resource   string    `json:"resource" gorm:"column:resource"`
	ResourceID *int64    `json:"resource_id,omitempty" gorm:"column:resource_id"`
	Details    string    `json:"details" gorm:"column:details"`
	IPAddress  string    `json:"ip_address" gorm:"column:ip_address"`
	UserAgent  string    `json:"user_agent" gorm:"column:user_agent"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Entry) TableName() string {
	return "operation_logs"
}

// Meta carries the actor and caller fingerprint of one request.
type Meta struct {
	UserID    int64
	IPAddress string
	UserAgent string
}

// MetaFromRequest builds the audit metadata for the acting session.
func MetaFromRequest(r *http.Request) Meta {
	meta := Meta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if user, ok := internal.SessionFromContext(r.Context()); ok {
		meta.UserID = user.ID
	}
	return meta
}

// Repository persists log entries.
type Repository interface {
	Create(entry *Entry) error
}

// Recorder writes operation-log rows. Recording is best effort: a failed
// insert is logged and swallowed so it never fails the request that
// triggered it.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (rec *Recorder) Record(meta Meta, action, resource string, resourceID *int64, details string) {
	entry := &Entry{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	}
	if meta.UserID != 0 {
		uid := meta.UserID
		entry.UserID = &uid
	}

	if err := rec.repo.Create(entry); err != nil {
		rec.logger.Error("failed to record operation log",
			"action", action,
			"resource", resource,
			"error", err)
	}
}
