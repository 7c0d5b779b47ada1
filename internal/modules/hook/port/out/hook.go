package out

import (
	"context"

	"reader365/internal/modules/hook/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Notify(ctx context.Context, manifest domain.Manifest, event domain.Event) (domain.Ack, error)
}
