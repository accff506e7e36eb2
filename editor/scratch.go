package editor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"pkt.systems/workbench/schema"
)

// ScratchInputTypeID discriminates unsaved scratch documents.
const ScratchInputTypeID schema.TypeID = "workbench.input.scratch"

var scratchSeq atomic.Uint64

// ScratchInput is an unsaved working document without a backing file. It
// carries a unique untitled resource so that open requests for the same
// scratch document deduplicate while distinct scratch documents never do.
type ScratchInput struct {
	*Base
	mu       sync.Mutex
	contents []byte
}

// NewScratchInput constructs a scratch input with the given display name.
func NewScratchInput(name string) *ScratchInput {
	if name == "" {
		name = "Untitled"
	}
	resource := schema.Resource(fmt.Sprintf("untitled:///scratch-%d", scratchSeq.Add(1)))
	b := NewBase(BaseConfig{
		TypeID:   ScratchInputTypeID,
		Resource: resource,
		EditorID: TextPane,
	})
	b.SetCapabilities(schema.CapabilityUntitled | schema.CapabilityScratchpad)
	b.SetName(name)
	return &ScratchInput{Base: b}
}

// SetContents replaces the document content and marks the input dirty.
func (s *ScratchInput) SetContents(data []byte) {
	s.mu.Lock()
	s.contents = append([]byte(nil), data...)
	s.mu.Unlock()
	s.SetDirty(true)
}

// BackupContent exposes the unsaved content for hot-exit backups.
func (s *ScratchInput) BackupContent() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Dirty() || s.contents == nil {
		return nil, false
	}
	return append([]byte(nil), s.contents...), true
}

// Resolve returns the in-memory content.
func (s *ScratchInput) Resolve(ctx context.Context) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &TextModel{Contents: append([]byte(nil), s.contents...)}, nil
}

// Save converts the scratch document into a file input at the target
// resource. Without a target there is nowhere to save: cancelled.
func (s *ScratchInput) Save(ctx context.Context, group schema.GroupID, opts schema.SaveOptions) (Input, error) {
	if opts.Target == "" {
		return nil, nil
	}
	s.SetSaving(true)
	defer s.SetSaving(false)
	s.mu.Lock()
	data := append([]byte(nil), s.contents...)
	s.mu.Unlock()
	target := schema.CanonicalResource(opts.Target)
	if err := writeFileAtomic(resourcePath(target), data); err != nil {
		return nil, fmt.Errorf("save scratch to %s: %w", target, err)
	}
	s.SetDirty(false)
	return NewFileInput(target), nil
}

// SaveAs behaves like Save; a scratch document has no current resource to
// keep.
func (s *ScratchInput) SaveAs(ctx context.Context, group schema.GroupID, opts schema.SaveOptions) (Input, error) {
	return s.Save(ctx, group, opts)
}

// Revert discards the content and clears the dirty flag.
func (s *ScratchInput) Revert(ctx context.Context, group schema.GroupID, opts schema.RevertOptions) error {
	s.mu.Lock()
	s.contents = nil
	s.mu.Unlock()
	s.SetDirty(false)
	return nil
}

// Copy returns an independent scratch document with the same name and
// content.
func (s *ScratchInput) Copy() Input {
	c := NewScratchInput(s.Name())
	s.mu.Lock()
	contents := s.contents
	dirty := s.Dirty()
	s.mu.Unlock()
	if contents != nil {
		c.SetContents(contents)
	}
	if !dirty {
		c.SetDirty(false)
	}
	return c
}
