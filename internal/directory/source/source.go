// Package source defines how the directory obtains its records and how fetch failures are classified.
package source

//go:generate mockgen -source=source.go -destination=mocks/source_mock.go -package=mocks Source

import (
	"context"

	"userdir/internal/directory/models"
)

// Source fetches one batch of user records from an upstream people directory.
type Source interface {
	Fetch(ctx context.Context, count int) ([]models.UserRecord, error)
}
