package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
	MimeTypePDF          = "application/pdf"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxExportSize is the maximum size for exported content (5MB).
const MaxExportSize = 5 * 1024 * 1024

// Placeholder contents for files whose text is not extracted.
const (
	PDFPlaceholder = "[PDF content not extracted in this version]"
)

// listFields are the file fields requested from files.list.
const listFields = "nextPageToken, files(id, name, mimeType, description, createdTime, modifiedTime, owners(displayName, emailAddress), webViewLink, size, parents)"

// exportFormats maps exportable Workspace types to their text export.
var exportFormats = map[string]string{
	MimeTypeGoogleDoc:    ExportMimeText,
	MimeTypeGoogleSlides: ExportMimeText,
	MimeTypeGoogleSheet:  ExportMimeCSV,
}

// FileContent is the JSON structure for the Drive file RawDocument content.
type FileContent struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MIMEType     string  `json:"mime_type"`
	Description  string  `json:"description,omitempty"`
	CreatedTime  string  `json:"created_time,omitempty"`
	ModifiedTime string  `json:"modified_time,omitempty"`
	Owners       []Owner `json:"owners,omitempty"`
	WebViewLink  string  `json:"web_view_link,omitempty"`
	Content      string  `json:"content"`
	Truncated    bool    `json:"truncated,omitempty"`
}

// Owner is a file owner.
type Owner struct {
	DisplayName  string `json:"display_name"`
	EmailAddress string `json:"email_address,omitempty"`
}

// quote escapes a value for use inside a Drive query string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// folderQuery finds folders called name.
func folderQuery(name string) string {
	return fmt.Sprintf("name = %s and mimeType = %s and trashed = false", quote(name), quote(MimeTypeFolder))
}

// BuildQuery returns the files.list query for cfg. folderID may be empty.
// Folders and trashed files are always excluded.
func BuildQuery(folderID string, mimeTypes []string) string {
	var parts []string
	if folderID != "" {
		parts = append(parts, quote(folderID)+" in parents")
	}
	if len(mimeTypes) > 0 {
		conds := make([]string, len(mimeTypes))
		for i, m := range mimeTypes {
			conds[i] = "mimeType = " + quote(m)
		}
		parts = append(parts, "("+strings.Join(conds, " or ")+")")
	}
	parts = append(parts, "mimeType != "+quote(MimeTypeFolder), "trashed = false")
	return strings.Join(parts, " and ")
}

// isTextFile checks if a MIME type is likely text content.
func isTextFile(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}

	switch mimeType {
	case "application/json",
		"application/xml",
		"application/javascript",
		"application/x-yaml",
		"application/x-sh",
		"application/sql":
		return true
	}
	return false
}

// unsupportedPlaceholder is the content of a file type that is not extracted.
func unsupportedPlaceholder(mimeType string) string {
	return fmt.Sprintf("[Unsupported type: %s]", mimeType)
}

// errorPlaceholder is the content of a file whose extraction failed.
func errorPlaceholder(err error) string {
	return fmt.Sprintf("[Error extracting content: %v]", err)
}

// fileText is the extracted content of a file.
type fileText struct {
	text      string
	truncated bool
}

// fetchFileContent retrieves the text content of a file.
// Types that are not extracted yield a placeholder and no error.
func fetchFileContent(ctx context.Context, svc *drive.Service, file *drive.File) (fileText, error) {
	if exportMime, ok := exportFormats[file.MimeType]; ok {
		resp, err := svc.Files.Export(file.Id, exportMime).Context(ctx).Download()
		if err != nil {
			return fileText{}, fmt.Errorf("export file: %w", err)
		}
		defer resp.Body.Close()
		return readCapped(resp.Body)
	}

	switch {
	case isTextFile(file.MimeType):
		resp, err := svc.Files.Get(file.Id).Context(ctx).Download()
		if err != nil {
			return fileText{}, fmt.Errorf("download file: %w", err)
		}
		defer resp.Body.Close()
		return readCapped(resp.Body)
	case file.MimeType == MimeTypePDF:
		return fileText{text: PDFPlaceholder}, nil
	default:
		return fileText{text: unsupportedPlaceholder(file.MimeType)}, nil
	}
}

// readCapped reads at most MaxExportSize bytes. Longer content is cut at
// the last complete UTF-8 sequence and flagged as truncated.
func readCapped(r io.Reader) (fileText, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxExportSize+1))
	if err != nil {
		return fileText{}, fmt.Errorf("read file content: %w", err)
	}
	if len(data) <= MaxExportSize {
		return fileText{text: string(data)}, nil
	}
	return fileText{text: string(trimPartialRune(data[:MaxExportSize])), truncated: true}, nil
}

// trimPartialRune drops an incomplete multi-byte sequence from the end of data.
func trimPartialRune(data []byte) []byte {
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if utf8.RuneStart(data[i]) {
			if !utf8.FullRune(data[i:]) {
				return data[:i]
			}
			break
		}
	}
	return data
}

// buildFileDocument converts a Drive file and its extracted content into a RawDocument.
func buildFileDocument(file *drive.File, extracted fileText) (domain.RawDocument, error) {
	content := FileContent{
		ID:           file.Id,
		Name:         file.Name,
		MIMEType:     file.MimeType,
		Description:  file.Description,
		CreatedTime:  file.CreatedTime,
		ModifiedTime: file.ModifiedTime,
		WebViewLink:  file.WebViewLink,
		Content:      extracted.text,
		Truncated:    extracted.truncated,
	}
	for _, o := range file.Owners {
		content.Owners = append(content.Owners, Owner{DisplayName: o.DisplayName, EmailAddress: o.EmailAddress})
	}

	data, err := json.Marshal(content)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("encode file: %w", err)
	}

	doc := domain.RawDocument{
		Connector: domain.ConnectorGoogleDrive,
		URI:       FileURI(file.Id),
		MIMEType:  domain.MIMEDriveFile,
		Content:   data,
		Metadata: map[string]any{
			"file_id":   file.Id,
			"mime_type": file.MimeType,
			"size":      file.Size,
		},
	}
	if extracted.truncated {
		doc.Metadata["truncated"] = true
	}
	if len(file.Parents) > 0 {
		parent := FileURI(file.Parents[0])
		doc.ParentURI = &parent
	}
	return doc, nil
}
