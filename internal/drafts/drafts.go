// Package drafts keeps in-progress receipt forms between requests. A draft is
// addressed by an opaque token held in the visitor's cookie.
package drafts

import (
	"context"
	"time"

	"recepcion/internal/utils"
	"recepcion/pkg/types"
)

const lockTTL = 30 * time.Second

// Draft is an unsubmitted receipt. Strokes keeps the raw signature payload
// per signer so a re-rendered form can redraw what was signed.
type Draft struct {
	Token     string                  `json:"token"`
	Record    types.FormRecord        `json:"record"`
	Strokes   map[types.Signer]string `json:"strokes,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

// New starts a draft for record under a fresh token.
func New(record types.FormRecord, now time.Time) *Draft {
	return &Draft{
		Token:     utils.NanoID(),
		Record:    record,
		CreatedAt: now,
	}
}

// Store persists drafts. Lock reserves a draft for one submission and
// returns the function that releases it.
type Store interface {
	Save(ctx context.Context, draft *Draft) error
	Load(ctx context.Context, token string) (*Draft, error)
	Delete(ctx context.Context, token string) error
	Lock(ctx context.Context, token string) (func(), error)
}
