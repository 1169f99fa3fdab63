package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ReportRepository stores generated loan reports and hands out temporary links to them
type ReportRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// GenerateObjectPath creates a unique object path for a report of a loan:
// exports/<workspace>/<loan>/<kind>_<uuid><ext>
func GenerateObjectPath(workspaceID int32, loanID int32, kind string, ext string) string {
	filename := fmt.Sprintf("%s_%s%s", kind, uuid.New().String(), ext)
	return path.Join("exports", fmt.Sprintf("%d", workspaceID), fmt.Sprintf("%d", loanID), filename)
}
