package drive

import "strings"

// uriPrefix is the scheme used for Drive RawDocument URIs.
const uriPrefix = "gdrive://files/"

// FileURI returns the RawDocument URI of a Drive file.
func FileURI(fileID string) string {
	return uriPrefix + fileID
}

// FileIDFromURI extracts the file ID from a URI built by FileURI.
func FileIDFromURI(uri string) (string, bool) {
	id, ok := strings.CutPrefix(uri, uriPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// ResolveWebURL returns the browser link of a Drive file.
// The webViewLink reported by the API wins; otherwise one is derived from the URI.
func ResolveWebURL(uri, webViewLink string) string {
	if webViewLink != "" {
		return webViewLink
	}
	if id, ok := FileIDFromURI(uri); ok {
		return "https://drive.google.com/file/d/" + id + "/view"
	}
	return ""
}
