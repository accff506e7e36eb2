package editor

// BackupProvider is implemented by inputs whose unsaved content can be
// mirrored into the hot-exit backup store while they are dirty.
type BackupProvider interface {
	BackupContent() (content []byte, ok bool)
}

// ContentSetter is implemented by inputs that accept a replacement
// buffer, marking themselves dirty. A dirty input's buffer is moved
// through this when the live instance is swapped, e.g. after a rename.
type ContentSetter interface {
	SetContents(data []byte)
}
