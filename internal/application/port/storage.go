package port

import "context"

// ExportStorage writes generated export files under a base directory
type ExportStorage interface {
	// Save writes content under name and returns the full path written
	Save(ctx context.Context, name string, content []byte) (string, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Exists(ctx context.Context, name string) bool
}
