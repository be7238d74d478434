// Package files acquires invoice documents from object storage or Google Drive.
package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/facturas/pkg/formatting"
	"github.com/JaimeStill/facturas/pkg/storage"
)

const defaultContentType = "application/pdf"

// Sources reported on File.
const (
	SourceStorage = "storage"
	SourceDrive   = "drive"
)

var (
	// ErrNoReference indicates neither a Drive id nor a storage location was given.
	ErrNoReference = errors.New("no file reference")
	// ErrEmptyFile indicates the acquired file has no content.
	ErrEmptyFile = errors.New("file is empty")
	// ErrTooLarge indicates the file exceeds the download limit.
	ErrTooLarge = errors.New("file exceeds download limit")
)

// Reference locates a document in storage (bucket and path) or in Drive.
type Reference struct {
	DriveFileID   string
	StorageBucket string
	StoragePath   string
}

// File is an acquired document.
type File struct {
	Data        []byte
	ContentType string
	PageCount   *int
	Source      string
}

// Drive downloads Drive files by id.
type Drive interface {
	Download(ctx context.Context, fileID string, limit int64) ([]byte, error)
}

// System fetches documents by reference.
type System interface {
	Fetch(ctx context.Context, ref Reference) (*File, error)
}

type files struct {
	store    storage.System
	drive    Drive
	maxBytes int64
	logger   *slog.Logger
}

// New creates a System. maxBytes bounds every download; zero disables the bound.
func New(store storage.System, drive Drive, maxBytes int64, logger *slog.Logger) System {
	return &files{
		store:    store,
		drive:    drive,
		maxBytes: maxBytes,
		logger:   logger.With("system", "files"),
	}
}

func (f *files) Fetch(ctx context.Context, ref Reference) (*File, error) {
	var (
		file *File
		err  error
	)

	switch {
	case ref.StorageBucket != "" && ref.StoragePath != "":
		file, err = f.fromStorage(ctx, ref.StorageBucket, ref.StoragePath)
	case ref.DriveFileID != "":
		file, err = f.fromDrive(ctx, ref.DriveFileID)
	default:
		return nil, ErrNoReference
	}
	if err != nil {
		return nil, err
	}

	file.PageCount = pageCount(f.logger, file.Data, file.ContentType)

	attrs := []any{"source", file.Source, "bytes", len(file.Data), "content_type", file.ContentType}
	if file.PageCount != nil {
		attrs = append(attrs, "pages", *file.PageCount)
	}
	f.logger.InfoContext(ctx, "file acquired", attrs...)
	return file, nil
}

func (f *files) fromStorage(ctx context.Context, bucket, rawPath string) (*File, error) {
	key, err := storage.NormalizePath(bucket, rawPath)
	if err != nil {
		return nil, fmt.Errorf("storage path %q: %w", rawPath, err)
	}

	obj, err := f.store.Download(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("storage download %s/%s: %w", bucket, key, err)
	}
	defer obj.Body.Close()

	if f.maxBytes > 0 && obj.ContentLength > f.maxBytes {
		return nil, f.tooLarge(obj.ContentLength)
	}

	var reader io.Reader = obj.Body
	if f.maxBytes > 0 {
		reader = io.LimitReader(obj.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("storage read %s/%s: %w", bucket, key, err)
	}
	if err := f.checkSize(data); err != nil {
		return nil, err
	}

	return &File{
		Data:        data,
		ContentType: detectContentType(obj.ContentType),
		Source:      SourceStorage,
	}, nil
}

func (f *files) fromDrive(ctx context.Context, fileID string) (*File, error) {
	data, err := f.drive.Download(ctx, fileID, f.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("drive download %s: %w", fileID, err)
	}
	if err := f.checkSize(data); err != nil {
		return nil, err
	}

	return &File{
		Data:        data,
		ContentType: defaultContentType,
		Source:      SourceDrive,
	}, nil
}

func (f *files) checkSize(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return f.tooLarge(int64(len(data)))
	}
	return nil
}

func (f *files) tooLarge(size int64) error {
	return fmt.Errorf("%w: %s exceeds %s", ErrTooLarge, formatting.FormatBytes(size, 1), formatting.FormatBytes(f.maxBytes, 1))
}

func detectContentType(header string) string {
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(header))
	if err != nil || mt == "application/octet-stream" || mt == "binary/octet-stream" {
		return defaultContentType
	}
	return mt
}

func pageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != defaultContentType {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}
	return &count
}
