package messages

import (
	"jsonview/internal/browser"
	"jsonview/internal/document"
)

// ManifestLoadedMsg carries the result of a manifest fetch.
type ManifestLoadedMsg struct {
	Names []string
	Err   error
}

// DocumentLoadedMsg carries the result of a file fetch. Generation
// identifies the selection that started it.
type DocumentLoadedMsg struct {
	Name       string
	Generation uint64
	Doc        *document.Document
	Err        error
}

// DownloadCompleteMsg is sent when a download finished or failed.
type DownloadCompleteMsg struct {
	Name  string
	Saved *browser.Saved
	Err   error
}
