package cms

import "strings"

// PlaceholderImage is shown for products without uploaded media.
const PlaceholderImage = "https://placehold.co/600x400/png?text=No+Image"

// ResolveMediaURL turns a CMS media path into an absolute URL. The CMS
// serves its own uploads as paths like /uploads/chair.jpg; externally
// hosted media already carries a scheme and passes through untouched.
// An empty path resolves to the shared placeholder.
func ResolveMediaURL(baseURL, url string) string {
	if url == "" {
		return PlaceholderImage
	}
	if strings.HasPrefix(url, "http") || strings.HasPrefix(url, "//") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return strings.TrimRight(baseURL, "/") + url
}
