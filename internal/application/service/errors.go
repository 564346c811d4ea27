package service

import (
	"errors"
)

// Error classes. Callers test with errors.Is; the HTTP layer maps them to
// status codes.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrImportFormat = errors.New("import format")
)

// Messages shown to users
const (
	MsgSupplierRequired    = "Supplier / Payee name is required."
	MsgNegativeAmount      = "Amounts cannot be negative."
	MsgUnknownCategory     = "Unknown category."
	MsgUnknownStatus       = "Unknown status."
	MsgRecordNotFound      = "Record not found."
	MsgNoFile              = "No file attached to this document."
	MsgUnsupportedFile     = "Unsupported file type. Use PDF, DOC, DOCX, JPG or PNG."
	MsgUnreadablePDF       = "The attached PDF could not be opened."
	MsgNoDataToExport      = "No data to export."
	MsgImportFailed        = "Import process failed. Ensure column names match."
	MsgAllRecordsExist     = "All records in this file already exist in the registry."
	MsgImporterRequired    = "An importing user is required."
	MsgCredentialsRequired = "Username and password are required."
	MsgPasswordMismatch    = "Passwords do not match."
	MsgDuplicateUser       = "A user with this username already exists."
	MsgInvalidCredentials  = "Invalid username or password."
)

// UserError is an error whose message is meant for the person who caused it
type UserError struct {
	Kind    error
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the class and the underlying cause
func (e *UserError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newUserError(kind error, message string) error {
	return &UserError{Kind: kind, Message: message}
}

func wrapUserError(kind error, message string, err error) error {
	return &UserError{Kind: kind, Message: message, Err: err}
}

// isUserError reports whether err carries a UserError anywhere in its chain
func isUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// UserMessage returns the user-facing message carried by err, or fallback
func UserMessage(err error, fallback string) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return fallback
}
