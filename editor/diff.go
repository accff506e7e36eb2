package editor

import (
	"context"

	"pkt.systems/workbench/schema"
)

// DiffInputTypeID discriminates side-by-side comparison inputs.
const DiffInputTypeID schema.TypeID = "workbench.input.diff"

// DiffModel pairs the resolved sides of a comparison.
type DiffModel struct {
	Original Model
	Modified Model
}

// Dispose releases both sides.
func (m *DiffModel) Dispose() {
	if m.Original != nil {
		m.Original.Dispose()
	}
	if m.Modified != nil {
		m.Modified.Dispose()
	}
}

// DiffInput presents two inputs side by side. It owns both sides:
// disposing the diff disposes them. Unlike the base contract, two diff
// inputs match structurally when their sides match, so reopening the same
// comparison reuses the tab.
type DiffInput struct {
	*Base
	original Input
	modified Input
}

// NewDiffInput constructs a comparison of original against modified.
func NewDiffInput(original, modified Input) *DiffInput {
	b := NewBase(BaseConfig{TypeID: DiffInputTypeID, EditorID: DiffPane})
	d := &DiffInput{Base: b, original: original, modified: modified}
	relabel := func() {
		b.SetName(original.Name() + " ↔ " + modified.Name())
	}
	relabel()
	b.RegisterDisposable(DisposableFunc(original.OnLabelChanged(relabel)))
	b.RegisterDisposable(DisposableFunc(modified.OnLabelChanged(relabel)))
	b.RegisterDisposable(DisposableFunc(modified.OnDirtyChanged(func() {
		b.dirtyChanged.Emit()
	})))
	b.RegisterDisposable(DisposableFunc(func() {
		original.Dispose()
		modified.Dispose()
	}))
	return d
}

// Original returns the left-hand side.
func (d *DiffInput) Original() Input { return d.original }

// Modified returns the right-hand side.
func (d *DiffInput) Modified() Input { return d.modified }

// Dirty reflects the editable side of the comparison.
func (d *DiffInput) Dirty() bool { return d.modified.Dirty() }

// TelemetryDescriptor adds the side type ids to the base fields.
func (d *DiffInput) TelemetryDescriptor() map[string]any {
	desc := d.Base.TelemetryDescriptor()
	desc["original_type_id"] = string(d.original.TypeID())
	desc["modified_type_id"] = string(d.modified.TypeID())
	return desc
}

// Resolve loads both sides.
func (d *DiffInput) Resolve(ctx context.Context) (Model, error) {
	original, err := d.original.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	modified, err := d.modified.Resolve(ctx)
	if err != nil {
		if original != nil {
			original.Dispose()
		}
		return nil, err
	}
	return &DiffModel{Original: original, Modified: modified}, nil
}

// Matches is strict identity first, then structural equality over both
// sides: the documented override path for kinds that want value-based tab
// reuse.
func (d *DiffInput) Matches(other Input) bool {
	if other == nil {
		return false
	}
	if other.InputID() == d.InputID() {
		return true
	}
	o, ok := other.(*DiffInput)
	if !ok {
		return false
	}
	return d.original.Matches(o.original) && d.modified.Matches(o.modified)
}

// Copy duplicates the comparison with copies of both sides.
func (d *DiffInput) Copy() Input {
	return NewDiffInput(d.original.Copy(), d.modified.Copy())
}
