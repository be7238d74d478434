package extraction

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/facturas/internal/files"
)

// Request asks for one document to be extracted. Exactly one file
// reference is expected: a Drive file id or a storage bucket and path.
type Request struct {
	DocumentID     string `json:"document_id"`
	ClientID       string `json:"client_id"`
	Supplier       string `json:"supplier"`
	DriveFileID    string `json:"drive_file_id,omitempty"`
	StorageBucket  string `json:"storage_bucket,omitempty"`
	StoragePath    string `json:"storage_path,omitempty"`
	DocInternalRef string `json:"doc_internal_ref,omitempty"`
}

// Validate reports every problem with the request in a single
// ErrInvalidRequest.
func (r *Request) Validate() error {
	var problems []string

	if _, err := uuid.Parse(strings.TrimSpace(r.DocumentID)); err != nil {
		problems = append(problems, "document_id must be a UUID")
	}
	if strings.TrimSpace(r.ClientID) == "" {
		problems = append(problems, "client_id is required")
	}
	if strings.TrimSpace(r.Supplier) == "" {
		problems = append(problems, "supplier is required")
	}

	bucket := strings.TrimSpace(r.StorageBucket) != ""
	path := strings.TrimSpace(r.StoragePath) != ""
	drive := strings.TrimSpace(r.DriveFileID) != ""

	switch {
	case bucket != path:
		problems = append(problems, "storage_bucket and storage_path must be provided together")
	case !bucket && !drive:
		problems = append(problems, "drive_file_id or storage_bucket with storage_path is required")
	case bucket && drive:
		problems = append(problems, "drive_file_id and storage_bucket with storage_path are mutually exclusive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
	}
	return nil
}

// Reference returns the file reference carried by the request.
func (r *Request) Reference() files.Reference {
	return files.Reference{
		DriveFileID:   strings.TrimSpace(r.DriveFileID),
		StorageBucket: strings.TrimSpace(r.StorageBucket),
		StoragePath:   strings.TrimSpace(r.StoragePath),
	}
}
