package port

import (
	"io"
	"time"

	"github.com/procureflow/registry/internal/domain/entity"
)

// SpreadsheetCodec converts records to and from xlsx workbooks
type SpreadsheetCodec interface {
	ExportRegistry(records []entity.Record) ([]byte, error)
	ExportRecord(record entity.Record) ([]byte, error)
	// ImportRegistry reads the first sheet; today fills missing dates
	ImportRegistry(r io.Reader, today time.Time) ([]entity.Record, error)
}

// DocumentRenderer renders a single record as a printable document
type DocumentRenderer interface {
	RenderRecord(record entity.Record) ([]byte, error)
}

// AttachmentInspector opens an uploaded PDF to make sure it is readable
type AttachmentInspector interface {
	PageCount(data []byte) (int, error)
}
