package utils

import "strings"

// ImageNormalizer turns stored image references into servable URLs.
// Local references are storage-relative paths under root; anything
// starting with http:// or https:// is an external URL kept as is.
type ImageNormalizer struct {
	baseURL string // Always ends with exactly one "/"
	root    string // Storage root without surrounding slashes, e.g. "uploads"
}

// NewImageNormalizer creates a normalizer serving root under baseURL
func NewImageNormalizer(baseURL, root string) *ImageNormalizer {
	return &ImageNormalizer{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		root:    strings.Trim(strings.ReplaceAll(root, "\\", "/"), "/"),
	}
}

// Root returns the storage root segment
func (n *ImageNormalizer) Root() string {
	return n.root
}

// Normalize returns the display URL for raw, or "" when there is no image
func (n *ImageNormalizer) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if isExternalURL(raw) {
		return raw
	}
	rel := n.RelativePath(raw)
	if rel == "" {
		return ""
	}
	return n.baseURL + n.root + "/" + rel
}

// RelativePath returns raw as a clean path relative to the storage root
func (n *ImageNormalizer) RelativePath(raw string) string {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/"), "/")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}
		segs = append(segs, p)
	}
	// Drop every leading copy of the root, "uploads/uploads/x" included
	for len(segs) > 0 && segs[0] == n.root {
		segs = segs[1:]
	}
	return strings.Join(segs, "/")
}

// Ptr is Normalize for JSON fields that render a missing image as null
func (n *ImageNormalizer) Ptr(raw string) *string {
	u := n.Normalize(raw)
	if u == "" {
		return nil
	}
	return &u
}

func isExternalURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// StoredPath returns the form of raw kept in the database: external URLs
// unchanged, local paths relative to the storage root.
func (n *ImageNormalizer) StoredPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if isExternalURL(raw) {
		return raw
	}
	return n.RelativePath(raw)
}
