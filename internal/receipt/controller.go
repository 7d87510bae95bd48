// Package receipt holds the equipment receipt workflow: editing a draft,
// submitting it, and the list and detail read paths over stored records.
package receipt

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"recepcion/pkg/types"
)

// SignatureSource exports the current signature of a signer as a PNG data
// URL, or "" when the signer has not drawn anything.
type SignatureSource interface {
	ExportImage(signer types.Signer) (string, error)
}

// Persister is the storage boundary a submitted record is handed to.
type Persister interface {
	CreateRecord(ctx context.Context, record types.FormRecord) (int, error)
}

// NewDraft builds an empty record for a freshly opened intake form.
func NewDraft(orderID int, institution string, now time.Time) types.FormRecord {
	return types.FormRecord{
		OrderID:     orderID,
		Institution: institution,
		Date:        now.Format(types.DateLayout),
	}
}

// Controller owns exactly one draft and mediates every edit to it.
type Controller struct {
	mu        sync.Mutex
	draft     types.FormRecord
	policy    *Policy
	submitted bool

	submitting atomic.Bool
}

func NewController(draft types.FormRecord, policy *Policy) *Controller {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Controller{draft: draft, policy: policy}
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() types.FormRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// UpdateField sets one field of the draft. Equipment and withdrawn equipment
// sections need exactly one category.
func (c *Controller) UpdateField(section types.Section, field, value string, category ...types.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting.Load() {
		return types.ErrSubmitInProgress
	}
	if c.submitted {
		return types.ErrAlreadySubmitted
	}

	next, err := ApplyField(c.draft, section, field, value, category...)
	if err != nil {
		return err
	}
	c.draft = next
	return nil
}

// Submit captures both signatures from sigs, validates the draft and hands an
// immutable snapshot to persister. On a validation or persistence failure the
// draft keeps every value the user entered and Submit can be called again.
func (c *Controller) Submit(ctx context.Context, sigs SignatureSource, persister Persister) (types.FormRecord, error) {
	if !c.submitting.CompareAndSwap(false, true) {
		return types.FormRecord{}, types.ErrSubmitInProgress
	}
	defer c.submitting.Store(false)

	snapshot, err := c.capture(sigs)
	if err != nil {
		return types.FormRecord{}, err
	}

	if verr := c.policy.Validate(snapshot); verr != nil {
		return types.FormRecord{}, verr
	}

	id, err := persister.CreateRecord(ctx, snapshot)
	if err != nil {
		return types.FormRecord{}, &types.PersistenceError{Err: err}
	}
	snapshot.OrderID = id

	c.mu.Lock()
	c.submitted = true
	c.mu.Unlock()

	return snapshot, nil
}

func (c *Controller) capture(sigs SignatureSource) (types.FormRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitted {
		return types.FormRecord{}, types.ErrAlreadySubmitted
	}

	if sigs != nil {
		draft := c.draft
		for _, signer := range types.Signers {
			img, err := sigs.ExportImage(signer)
			if err != nil {
				return types.FormRecord{}, fmt.Errorf("capture %s signature: %w", signer, err)
			}
			draft = draft.WithSignature(signer, img)
		}
		c.draft = draft
	}

	return c.draft, nil
}
