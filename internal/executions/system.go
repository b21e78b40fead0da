package executions

import (
	"context"

	"github.com/google/uuid"

	"github.com/scriptmark-labs/scriptmark/pkg/pagination"
	"github.com/scriptmark-labs/scriptmark/pkg/storage"
)

// System defines the public contract for execution domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Execution], error)

	Find(ctx context.Context, id uuid.UUID) (*Execution, error)
	Create(ctx context.Context, cmd CreateCommand) (*Execution, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Marks(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, error)
}
