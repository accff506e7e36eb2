package core

import (
	"strings"

	"pkt.systems/workbench/editor"
	"pkt.systems/workbench/schema"
)

// InputFactory materializes editor inputs from untyped descriptors.
type InputFactory interface {
	Create(desc schema.UntypedInput) (editor.Input, error)
}

// DefaultFactory builds scratch inputs for untitled descriptors and file
// inputs for everything else. Bare paths without a scheme are treated as
// local files.
type DefaultFactory struct{}

// Create implements InputFactory.
func (DefaultFactory) Create(desc schema.UntypedInput) (editor.Input, error) {
	resource := schema.CanonicalResource(desc.Resource)
	switch {
	case resource == "":
		return editor.NewScratchInput(""), nil
	case strings.HasPrefix(string(resource), "untitled:"):
		return editor.NewScratchInput(""), nil
	case strings.HasPrefix(string(resource), "file://"):
		return editor.NewFileInput(resource), nil
	case !strings.Contains(string(resource), "://"):
		return editor.NewFileInput(editor.FileResource(string(resource))), nil
	}
	return nil, schema.ErrNoFactory
}
