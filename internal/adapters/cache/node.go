package cache

import (
	"context"

	"github.com/grindlemire/graft"
)

const (
	ConfigStoreNodeID graft.ID = "adapter.cache.config_store"
	StatusStoreNodeID graft.ID = "adapter.cache.status_store"
)

func init() {
	graft.Register(graft.Node[*ConfigStore]{
		ID:        ConfigStoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*ConfigStore, error) {
			return NewConfigStore(), nil
		},
	})

	graft.Register(graft.Node[*StatusStore]{
		ID:        StatusStoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*StatusStore, error) {
			return NewStatusStore(), nil
		},
	})
}
