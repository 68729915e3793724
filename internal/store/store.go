// Package store persists in-progress wizard sessions (for abandoned
// journey recovery) and completed lead records.
package store

import (
	"context"
	"time"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Tier   model.Tier `json:"tier,omitempty"`
	Since  time.Time  `json:"since,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}

// Store defines the persistence interface for the qualification engine.
type Store interface {
	// Sessions (resume records)
	SaveSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteStaleSessions(ctx context.Context, olderThan time.Duration) (int, error)

	// Leads (write-once)
	CreateLead(ctx context.Context, lead *model.LeadRecord) error
	GetLead(ctx context.Context, id string) (*model.LeadRecord, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.LeadRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
