package editor

import (
	"context"
	"sync"
	"sync/atomic"

	"pkt.systems/workbench/schema"
)

// Model is the opaque handle to resolved editor content. The contract
// only passes it through; nil means the input has no content to load.
type Model interface {
	Dispose()
}

// Input is the identity, capability, and lifecycle handle of something
// openable in the workbench. It holds no rendering logic or UI state; the
// group manager reasons about tabs entirely through this surface.
//
// None of the default operations fail: unsupported is expressed as nil,
// identity, or no-op. Genuine failures (I/O during Resolve or Save) are
// the concern of concrete kinds and surface as returned errors.
type Input interface {
	// InputID is the unique, stable handle of this live instance.
	InputID() schema.InputID
	TypeID() schema.TypeID
	// Resource is the input's locator, empty for resourceless inputs.
	Resource() schema.Resource
	// EditorID names the pane kind this input is tied to, empty when the
	// input does not opt into untyped matching.
	EditorID() schema.EditorID

	Capabilities() schema.Capability
	HasCapability(flag schema.Capability) bool

	Name() string
	Description(verbosity schema.Verbosity) string
	Title(verbosity schema.Verbosity) string
	AriaLabel() string
	TelemetryDescriptor() map[string]any

	Dirty() bool
	Saving() bool

	// Resolve loads the input's content model. The default has nothing to
	// load and returns a nil model; callers must tolerate that.
	Resolve(ctx context.Context) (Model, error)
	// Save persists the input. The returned input is usually the receiver;
	// a different input means the saved document now lives elsewhere and
	// should replace this one in the group. Nil means cancelled.
	Save(ctx context.Context, group schema.GroupID, opts schema.SaveOptions) (Input, error)
	SaveAs(ctx context.Context, group schema.GroupID, opts schema.SaveOptions) (Input, error)
	Revert(ctx context.Context, group schema.GroupID, opts schema.RevertOptions) error
	// Rename moves the input to target. Nil means rename is unsupported.
	Rename(group schema.GroupID, target schema.Resource) *schema.MoveResult
	// Copy returns an independent duplicate, or the receiver's own handle
	// when the kind is not duplicable.
	Copy() Input
	// PreferredPane picks from a non-empty ordered candidate list; the
	// default keeps the caller's order and returns the first.
	PreferredPane(candidates []PaneDescriptor) *PaneDescriptor
	// ToUntyped returns a plain restorable descriptor, nil when the input
	// has no serializable form.
	ToUntyped() *schema.UntypedInput

	// Matches reports whether other denotes the same open document. For
	// typed inputs the default is strict instance identity.
	Matches(other Input) bool
	// MatchesDescriptor reports whether an untyped descriptor denotes the
	// same open document. It never errors; missing data yields false.
	MatchesDescriptor(other schema.UntypedInput) bool

	OnDirtyChanged(fn func()) func()
	OnLabelChanged(fn func()) func()
	OnCapabilitiesChanged(fn func()) func()
	OnWillDispose(fn func()) func()

	// Dispose moves the input to its terminal state. It is idempotent:
	// will-dispose fires exactly once, before owned resources are
	// released, so observers can still read final state during teardown.
	Dispose()
	Disposed() bool
}

var inputIDSeq atomic.Uint64

// BaseConfig seeds the identity attributes of a Base. TypeID is required;
// Resource and EditorID may stay empty for resourceless or pane-agnostic
// inputs. All three are fixed for the instance's lifetime.
type BaseConfig struct {
	TypeID   schema.TypeID
	Resource schema.Resource
	EditorID schema.EditorID
}

// Base implements the default editor-input contract. Concrete kinds embed
// a *Base and override operations. Observable state goes through the
// mutators (SetDirty, SetName, SetCapabilities) so the matching change
// signal always fires together with the change.
type Base struct {
	id       schema.InputID
	typeID   schema.TypeID
	resource schema.Resource
	editorID schema.EditorID

	mu           sync.Mutex
	name         string
	capabilities schema.Capability
	dirty        bool
	saving       bool
	disposed     bool

	dirtyChanged        Signal
	labelChanged        Signal
	capabilitiesChanged Signal
	willDispose         Signal
	disposables         DisposableStore
}

// NewBase constructs a Base with a fresh instance id and the default
// Readonly capability set.
func NewBase(cfg BaseConfig) *Base {
	b := &Base{
		id:           schema.InputID(inputIDSeq.Add(1)),
		typeID:       cfg.TypeID,
		resource:     cfg.Resource,
		editorID:     cfg.EditorID,
		capabilities: schema.CapabilityReadonly,
	}
	b.disposables.Add(&b.dirtyChanged)
	b.disposables.Add(&b.labelChanged)
	b.disposables.Add(&b.capabilitiesChanged)
	b.disposables.Add(&b.willDispose)
	return b
}

// InputID returns the unique handle assigned at construction.
func (b *Base) InputID() schema.InputID { return b.id }

// TypeID returns the concrete-kind discriminator.
func (b *Base) TypeID() schema.TypeID { return b.typeID }

// Resource returns the input's locator, empty when absent.
func (b *Base) Resource() schema.Resource { return b.resource }

// EditorID returns the pane kind this input is tied to, empty by default.
func (b *Base) EditorID() schema.EditorID { return b.editorID }

// Capabilities returns the current capability mask.
func (b *Base) Capabilities() schema.Capability {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capabilities
}

// HasCapability reports whether the input supports flag, with the exact
// equality rule for the None sentinel.
func (b *Base) HasCapability(flag schema.Capability) bool {
	return b.Capabilities().Has(flag)
}

// SetCapabilities replaces the capability mask, firing the
// capabilities-changed signal when the mask actually changes.
func (b *Base) SetCapabilities(mask schema.Capability) {
	b.mu.Lock()
	changed := b.capabilities != mask
	b.capabilities = mask
	b.mu.Unlock()
	if changed {
		b.capabilitiesChanged.Emit()
	}
}

// Name returns the human label, derived from the type id until SetName is
// called.
func (b *Base) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.name != "" {
		return b.name
	}
	return string(b.typeID)
}

// SetName replaces the human label, firing the label-changed signal when
// the label actually changes.
func (b *Base) SetName(name string) {
	b.mu.Lock()
	changed := b.name != name
	b.name = name
	b.mu.Unlock()
	if changed {
		b.labelChanged.Emit()
	}
}

// Description returns extra label context; the base has none.
func (b *Base) Description(verbosity schema.Verbosity) string { return "" }

// Title returns the full presentation label; the base falls back to Name.
func (b *Base) Title(verbosity schema.Verbosity) string { return b.Name() }

// AriaLabel returns the accessibility label; the base falls back to the
// short title.
func (b *Base) AriaLabel() string { return b.Title(schema.VerbosityShort) }

// TelemetryDescriptor returns non-sensitive metadata about the input,
// minimally its type id. Concrete kinds merge additional fields.
func (b *Base) TelemetryDescriptor() map[string]any {
	return map[string]any{"type_id": string(b.typeID)}
}

// Dirty reports unsaved changes; false by default.
func (b *Base) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

// SetDirty updates the dirty flag, firing the dirty-changed signal when
// the flag actually changes.
func (b *Base) SetDirty(dirty bool) {
	b.mu.Lock()
	changed := b.dirty != dirty
	b.dirty = dirty
	b.mu.Unlock()
	if changed {
		b.dirtyChanged.Emit()
	}
}

// Saving reports an in-flight save; false by default.
func (b *Base) Saving() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saving
}

// SetSaving updates the saving flag.
func (b *Base) SetSaving(saving bool) {
	b.mu.Lock()
	b.saving = saving
	b.mu.Unlock()
}

// Resolve returns a nil model; the base has no content to load.
func (b *Base) Resolve(ctx context.Context) (Model, error) { return nil, nil }

// Save succeeds with nothing to do and returns the receiver's handle.
func (b *Base) Save(ctx context.Context, group schema.GroupID, opts schema.SaveOptions) (Input, error) {
	return b, nil
}

// SaveAs succeeds with nothing to do and returns the receiver's handle.
func (b *Base) SaveAs(ctx context.Context, group schema.GroupID, opts schema.SaveOptions) (Input, error) {
	return b, nil
}

// Revert has nothing to revert.
func (b *Base) Revert(ctx context.Context, group schema.GroupID, opts schema.RevertOptions) error {
	return nil
}

// Rename is unsupported by default.
func (b *Base) Rename(group schema.GroupID, target schema.Resource) *schema.MoveResult {
	return nil
}

// Copy returns the receiver's handle; base inputs are not duplicable.
func (b *Base) Copy() Input { return b }

// PreferredPane returns the first candidate, nil for an empty list. The
// candidate order is decided by the registry and is significant.
func (b *Base) PreferredPane(candidates []PaneDescriptor) *PaneDescriptor {
	if len(candidates) == 0 {
		return nil
	}
	pane := candidates[0]
	return &pane
}

// ToUntyped reports no serializable form.
func (b *Base) ToUntyped() *schema.UntypedInput { return nil }

// Matches reports whether other is this exact live instance. Structural
// comparison is deliberately not applied: two distinct inputs on the same
// resource are two tabs unless a concrete kind overrides this with value
// equality.
func (b *Base) Matches(other Input) bool {
	return other != nil && other.InputID() == b.id
}

// MatchesDescriptor compares against an untyped descriptor. Inputs
// without a declared editor id never match; untyped matching is opt-in
// per pane kind. Otherwise the override must equal the editor id exactly
// and the canonical resources must be equal, where two absent resources
// count as equal.
func (b *Base) MatchesDescriptor(other schema.UntypedInput) bool {
	if b.editorID == "" {
		return false
	}
	if other.Options.Override != b.editorID {
		return false
	}
	return schema.CanonicalResource(b.resource) == schema.CanonicalResource(other.Resource)
}

// OnDirtyChanged subscribes to dirty-state changes.
func (b *Base) OnDirtyChanged(fn func()) func() { return b.dirtyChanged.Subscribe(fn) }

// OnLabelChanged subscribes to label changes.
func (b *Base) OnLabelChanged(fn func()) func() { return b.labelChanged.Subscribe(fn) }

// OnCapabilitiesChanged subscribes to capability mask changes.
func (b *Base) OnCapabilitiesChanged(fn func()) func() { return b.capabilitiesChanged.Subscribe(fn) }

// OnWillDispose subscribes to the teardown signal. Listeners run before
// any owned resource is released.
func (b *Base) OnWillDispose(fn func()) func() { return b.willDispose.Subscribe(fn) }

// RegisterDisposable ties d's lifetime to the input; it is released after
// will-dispose observers have run.
func (b *Base) RegisterDisposable(d Disposable) Disposable {
	return b.disposables.Add(d)
}

// Dispose moves the input to its terminal state: the disposed flag flips
// once, will-dispose fires to all current subscribers, and only then are
// the owned signals and registered disposables released.
func (b *Base) Dispose() {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return
	}
	b.disposed = true
	b.mu.Unlock()
	b.willDispose.Emit()
	b.disposables.Dispose()
}

// Disposed reports whether Dispose has run.
func (b *Base) Disposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}

// Snapshot captures a transport-friendly view of an input.
func Snapshot(in Input) schema.EditorSnapshot {
	return schema.EditorSnapshot{
		ID:           in.InputID(),
		TypeID:       in.TypeID(),
		Name:         in.Name(),
		Resource:     in.Resource(),
		EditorID:     in.EditorID(),
		Dirty:        in.Dirty(),
		Capabilities: in.Capabilities(),
		Untyped:      in.ToUntyped(),
	}
}
