package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	AgentRepoFactory interface {
		AgentRepository() ports.AgentRepository
	}

	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	AgentUoW interface {
		TxManager
		AgentRepoFactory
	}

	AgentUoWFactory interface {
		Create() AgentUoW
	}

	UoW interface {
		TxManager
		AgentRepoFactory
		OrderRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
