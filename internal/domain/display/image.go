package display

import "strings"

const (
	DefaultOrigin      = "https://grocery-app-backend-0mdx.onrender.com"
	DefaultPlaceholder = "https://via.placeholder.com/40"
)

// ImageResolver turns stored image paths into absolute URLs served by the backend
type ImageResolver struct {
	Origin      string
	Placeholder string
}

// NewImageResolver builds a resolver, falling back to the defaults for empty values
func NewImageResolver(origin, placeholder string) ImageResolver {
	if origin == "" {
		origin = DefaultOrigin
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return ImageResolver{Origin: strings.TrimRight(origin, "/"), Placeholder: placeholder}
}

// Resolve maps a stored path to a URL. It is total: malformed input lands in the filename branch.
func (r ImageResolver) Resolve(path string) string {
	if path == "" {
		return r.Placeholder
	}
	if strings.HasPrefix(path, "uploads/") || strings.HasPrefix(path, `uploads\`) {
		return r.Origin + "/" + strings.ReplaceAll(path, `\`, "/")
	}
	if strings.HasPrefix(path, "http") && !strings.Contains(path, "localhost") {
		return path
	}
	return r.Origin + "/uploads/" + lastSegment(path)
}

func lastSegment(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
