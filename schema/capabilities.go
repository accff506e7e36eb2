package schema

// Capability is a bitmask of behaviors an editor input supports.
type Capability uint32

const (
	// CapabilityNone marks an input with no special traits.
	CapabilityNone Capability = 0
	// CapabilityReadonly marks an input whose content cannot be modified.
	CapabilityReadonly Capability = 1 << iota
	// CapabilityUntitled marks an input that is not yet bound to a resource
	// on disk.
	CapabilityUntitled
	// CapabilitySingleton marks an input that should exist at most once per
	// resource across all groups.
	CapabilitySingleton
	// CapabilityScratchpad marks a throwaway working document.
	CapabilityScratchpad
	// CapabilityRequiresTrust marks an input that must not open in untrusted
	// workspaces.
	CapabilityRequiresTrust
)

// Has reports whether the mask contains flag. The None sentinel is only
// contained in an exactly-empty mask; plain bitwise containment would
// report None present in any mask.
func (c Capability) Has(flag Capability) bool {
	if flag == CapabilityNone {
		return c == CapabilityNone
	}
	return c&flag != 0
}
