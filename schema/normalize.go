package schema

import (
	"net/url"
	"path"
	"strings"
)

// CanonicalResource returns the normalized form of a resource used for
// matching equality: lowercased scheme and host, cleaned path, no
// fragment. Bare paths without a scheme canonicalize as cleaned slash
// paths. Malformed input is returned trimmed rather than rejected;
// matching treats it as an ordinary opaque string.
func CanonicalResource(r Resource) Resource {
	raw := strings.TrimSpace(string(r))
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return Resource(cleanResourcePath(raw))
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path != "" {
		u.Path = cleanResourcePath(u.Path)
	}
	u.Fragment = ""
	return Resource(u.String())
}

func cleanResourcePath(p string) string {
	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// ValidateWorkspaceID ensures a workspace id matches [a-z0-9._-] with no
// normalization.
func ValidateWorkspaceID(workspaceID WorkspaceID) error {
	raw := string(workspaceID)
	if raw == "" {
		return ErrInvalidWorkspace
	}
	for _, r := range raw {
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '.' || r == '_' || r == '-' {
			continue
		}
		return ErrInvalidWorkspace
	}
	return nil
}

// NormalizeWorkspaceID applies the default workspace and validates the id.
func NormalizeWorkspaceID(workspaceID WorkspaceID) (WorkspaceID, error) {
	if workspaceID == "" {
		return DefaultWorkspace, nil
	}
	if err := ValidateWorkspaceID(workspaceID); err != nil {
		return "", err
	}
	return workspaceID, nil
}
