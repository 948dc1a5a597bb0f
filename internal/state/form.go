package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/go-playground/validator/v10"
)

// Phase is the mutation form's lifecycle position.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseCreating
	PhaseEditing
	PhaseUploading
	PhaseSaving
)

func (p Phase) String() string {
	switch p {
	case PhaseCreating:
		return "creating"
	case PhaseEditing:
		return "editing"
	case PhaseUploading:
		return "uploading"
	case PhaseSaving:
		return "saving"
	default:
		return "closed"
	}
}

// PendingAsset is a locally selected file that has not been uploaded yet.
// A draft must never reach the backend referencing one of these.
type PendingAsset struct {
	Filename string
	Content  io.Reader
}

// FormOpts configures a [Form] for one resource.
type FormOpts[T any] struct {
	// Create persists a new record; Update persists edits to an existing one.
	Create func(ctx context.Context, draft T) (*T, error)
	Update func(ctx context.Context, draft T) (*T, error)
	// Upload pushes a pending asset and returns its server-side reference.
	// Nil for resources without assets.
	Upload func(ctx context.Context, filename string, content io.Reader) (string, error)
	// MergeAsset writes the uploaded reference into the draft.
	MergeAsset func(draft *T, url string)
	// BeforeSave adjusts the draft right before persistence (e.g. pruning
	// stale tag selections on create, never on edit).
	BeforeSave func(draft *T, editing bool)
	// Saved fires after a successful submit; the owning list controller's
	// Reload goes here.
	Saved func()
}

// Form drives the create/edit lifecycle of a draft record.
type Form[T any] struct {
	mu       sync.Mutex
	opts     FormOpts[T]
	validate *validator.Validate

	phase   Phase
	draft   T
	editing bool
	pending *PendingAsset
}

// NewForm creates a closed form.
func NewForm[T any](opts FormOpts[T]) *Form[T] {
	return &Form[T]{
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// OpenCreate opens the form with empty defaults.
func (f *Form[T]) OpenCreate(defaults T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = PhaseCreating
	f.editing = false
	f.draft = defaults
	f.pending = nil
}

// OpenEdit opens the form with a deep copy of an existing record, so edits
// never leak into the list controller's source collection.
func (f *Form[T]) OpenEdit(record T) error {
	copied, err := clone(record)
	if err != nil {
		return fmt.Errorf("failed to copy record: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = PhaseEditing
	f.editing = true
	f.draft = copied
	f.pending = nil
	return nil
}

// Phase returns the current lifecycle position.
func (f *Form[T]) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Draft returns the current draft value.
func (f *Form[T]) Draft() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Amend mutates the draft in place while the form is open.
func (f *Form[T]) Amend(fn func(*T)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseCreating || f.phase == PhaseEditing {
		fn(&f.draft)
	}
}

// AttachAsset stages a local file for upload on the next Submit, replacing
// any previously staged one.
func (f *Form[T]) AttachAsset(filename string, content io.Reader) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseCreating || f.phase == PhaseEditing {
		f.pending = &PendingAsset{Filename: filename, Content: content}
	}
}

// Submit validates the draft, uploads any pending asset, then creates or
// updates the record. The upload always completes and its reference is
// merged into the draft before the save call is issued. On failure at any
// step the form stays open in its prior phase with the draft intact, so the
// admin can retry.
func (f *Form[T]) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.phase != PhaseCreating && f.phase != PhaseEditing {
		f.mu.Unlock()
		return fmt.Errorf("%w: form is not open", shared.ErrInvalidArgument)
	}
	openPhase := f.phase
	editing := f.editing
	draft := f.draft
	pending := f.pending
	f.mu.Unlock()

	if err := f.validate.Struct(draft); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	if pending != nil {
		f.setPhase(PhaseUploading)
		url, err := f.opts.Upload(ctx, pending.Filename, pending.Content)
		if err != nil {
			f.setPhase(openPhase)
			return err
		}

		f.mu.Lock()
		f.opts.MergeAsset(&f.draft, url)
		f.pending = nil
		draft = f.draft
		f.mu.Unlock()
	}

	if f.opts.BeforeSave != nil {
		f.opts.BeforeSave(&draft, editing)
		f.mu.Lock()
		f.draft = draft
		f.mu.Unlock()
	}

	f.setPhase(PhaseSaving)
	var err error
	if editing {
		_, err = f.opts.Update(ctx, draft)
	} else {
		_, err = f.opts.Create(ctx, draft)
	}
	if err != nil {
		f.setPhase(openPhase)
		return err
	}

	f.mu.Lock()
	f.phase = PhaseClosed
	var zero T
	f.draft = zero
	f.editing = false
	f.mu.Unlock()

	if f.opts.Saved != nil {
		f.opts.Saved()
	}
	return nil
}

// Cancel discards the draft from any non-terminal phase.
func (f *Form[T]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = PhaseClosed
	var zero T
	f.draft = zero
	f.editing = false
	f.pending = nil
}

func (f *Form[T]) setPhase(p Phase) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = p
}

// clone deep-copies a record through its JSON form; every resource type
// here round-trips losslessly.
func clone[T any](record T) (T, error) {
	var out T
	data, err := json.Marshal(record)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}
