package export

import "context"

// Entry is one recorded export.
type Entry struct {
	ID        string `json:"id"`
	Format    string `json:"format"`
	FilePath  string `json:"file_path"`
	ItemCount int    `json:"item_count"`
	CreatedAt int64  `json:"created_at"`
}

// History defines the storage contract for the export log.
type History interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
