package editor

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"pkt.systems/workbench/schema"
)

// FileInputTypeID discriminates resource-backed file inputs.
const FileInputTypeID schema.TypeID = "workbench.input.file"

// TextModel is resolved text content.
type TextModel struct {
	Contents []byte
}

// Dispose releases the model. Text models hold no external resources.
func (m *TextModel) Dispose() {}

// FileResource builds a file resource from a filesystem path.
func FileResource(p string) schema.Resource {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}
	return schema.CanonicalResource(schema.Resource("file://" + filepath.ToSlash(abs)))
}

// resourcePath returns the filesystem path behind a file resource.
func resourcePath(r schema.Resource) string {
	raw := string(r)
	raw = strings.TrimPrefix(raw, "file://")
	return filepath.FromSlash(raw)
}

// FileInput is a resource-backed editor input whose content lives on
// disk. Edits are buffered in memory until saved; the dirty flag tracks
// the buffer.
type FileInput struct {
	*Base
	mu      sync.Mutex
	pending []byte
}

// NewFileInput constructs a file input for the given resource.
func NewFileInput(resource schema.Resource) *FileInput {
	canonical := schema.CanonicalResource(resource)
	b := NewBase(BaseConfig{
		TypeID:   FileInputTypeID,
		Resource: canonical,
		EditorID: TextPane,
	})
	b.SetCapabilities(schema.CapabilityNone)
	b.SetName(path.Base(strings.TrimPrefix(string(canonical), "file://")))
	return &FileInput{Base: b}
}

// Description returns path context scaled by verbosity: the parent
// directory name, the parent directory, or the full path.
func (f *FileInput) Description(verbosity schema.Verbosity) string {
	full := strings.TrimPrefix(string(f.Resource()), "file://")
	dir := path.Dir(full)
	switch verbosity {
	case schema.VerbosityShort:
		return path.Base(dir)
	case schema.VerbosityMedium:
		return dir
	default:
		return full
	}
}

// Title combines the name with the description for medium and long forms.
func (f *FileInput) Title(verbosity schema.Verbosity) string {
	if verbosity == schema.VerbosityShort {
		return f.Name()
	}
	return f.Name() + " (" + f.Description(verbosity) + ")"
}

// TelemetryDescriptor adds the resource scheme to the base fields.
func (f *FileInput) TelemetryDescriptor() map[string]any {
	desc := f.Base.TelemetryDescriptor()
	desc["scheme"] = "file"
	return desc
}

// SetContents buffers new unsaved contents and marks the input dirty.
func (f *FileInput) SetContents(data []byte) {
	f.mu.Lock()
	f.pending = append([]byte(nil), data...)
	f.mu.Unlock()
	f.SetDirty(true)
}

// BackupContent exposes the unsaved buffer for hot-exit backups.
func (f *FileInput) BackupContent() ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return nil, false
	}
	return append([]byte(nil), f.pending...), true
}

// Resolve loads the current content: the unsaved buffer when present,
// otherwise the file on disk.
func (f *FileInput) Resolve(ctx context.Context) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	pending := f.pending
	f.mu.Unlock()
	if pending != nil {
		return &TextModel{Contents: append([]byte(nil), pending...)}, nil
	}
	data, err := os.ReadFile(resourcePath(f.Resource()))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", f.Resource(), err)
	}
	return &TextModel{Contents: data}, nil
}

// Save writes the unsaved buffer to disk. A target pointing elsewhere
// routes through SaveAs.
func (f *FileInput) Save(ctx context.Context, group schema.GroupID, opts schema.SaveOptions) (Input, error) {
	if opts.Target != "" && schema.CanonicalResource(opts.Target) != f.Resource() {
		return f.SaveAs(ctx, group, opts)
	}
	if !f.Dirty() && !opts.Force {
		return f, nil
	}
	f.SetSaving(true)
	defer f.SetSaving(false)
	f.mu.Lock()
	pending := f.pending
	f.mu.Unlock()
	if pending == nil {
		f.SetDirty(false)
		return f, nil
	}
	if err := writeFileAtomic(resourcePath(f.Resource()), pending); err != nil {
		return nil, fmt.Errorf("save %s: %w", f.Resource(), err)
	}
	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()
	f.SetDirty(false)
	return f, nil
}

// SaveAs writes the content to the target resource and returns a new
// input bound to it. Without a target the operation is cancelled.
func (f *FileInput) SaveAs(ctx context.Context, group schema.GroupID, opts schema.SaveOptions) (Input, error) {
	if opts.Target == "" {
		return nil, nil
	}
	f.SetSaving(true)
	defer f.SetSaving(false)
	f.mu.Lock()
	data := f.pending
	f.mu.Unlock()
	if data == nil {
		current, err := os.ReadFile(resourcePath(f.Resource()))
		if err != nil {
			return nil, fmt.Errorf("save as %s: %w", opts.Target, err)
		}
		data = current
	}
	target := schema.CanonicalResource(opts.Target)
	if err := writeFileAtomic(resourcePath(target), data); err != nil {
		return nil, fmt.Errorf("save as %s: %w", target, err)
	}
	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()
	f.SetDirty(false)
	return NewFileInput(target), nil
}

// Revert drops the unsaved buffer; disk content becomes current again.
func (f *FileInput) Revert(ctx context.Context, group schema.GroupID, opts schema.RevertOptions) error {
	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()
	f.SetDirty(false)
	return nil
}

// Rename moves the file on disk and returns the descriptor of the new
// location. Nil is returned when the move fails; rename never errors.
func (f *FileInput) Rename(group schema.GroupID, target schema.Resource) *schema.MoveResult {
	if target == "" {
		return nil
	}
	canonical := schema.CanonicalResource(target)
	if err := os.Rename(resourcePath(f.Resource()), resourcePath(canonical)); err != nil {
		return nil
	}
	return &schema.MoveResult{Editor: schema.UntypedInput{
		Resource: canonical,
		Options:  schema.UntypedOptions{Override: TextPane},
	}}
}

// Copy returns an independent input on the same resource, carrying any
// unsaved buffer along.
func (f *FileInput) Copy() Input {
	c := NewFileInput(f.Resource())
	f.mu.Lock()
	pending := f.pending
	f.mu.Unlock()
	if pending != nil {
		c.SetContents(pending)
	}
	return c
}

// ToUntyped returns the restorable descriptor for this file.
func (f *FileInput) ToUntyped() *schema.UntypedInput {
	return &schema.UntypedInput{
		Resource: f.Resource(),
		Options:  schema.UntypedOptions{Override: TextPane},
	}
}

// Matches extends strict identity with resource equality against other
// file inputs: one file on disk, one tab.
func (f *FileInput) Matches(other Input) bool {
	if f.Base.Matches(other) {
		return true
	}
	o, ok := other.(*FileInput)
	if !ok {
		return false
	}
	return o.Resource() == f.Resource()
}

// SetReadonly toggles the readonly capability, e.g. after a permission
// change, firing the capabilities-changed signal.
func (f *FileInput) SetReadonly(readonly bool) {
	mask := f.Capabilities()
	if readonly {
		mask |= schema.CapabilityReadonly
	} else {
		mask &^= schema.CapabilityReadonly
	}
	f.SetCapabilities(mask)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".save-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
