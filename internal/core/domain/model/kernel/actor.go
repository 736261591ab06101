package kernel

import (
	"errors"
	"fmt"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

type Role string

const (
	RoleBuyer         Role = "buyer"
	RoleArtisan       Role = "artisan"
	RoleShippingAgent Role = "shipping_agent"
	RoleAdmin         Role = "admin"
)

func (r Role) Validate() error {
	switch r {
	case RoleBuyer, RoleArtisan, RoleShippingAgent, RoleAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

// Actor is the already-authenticated caller of an operation.
type Actor struct {
	id    UUID
	role  Role
	guard guard.ConstructorGuard
}

func NewActor(id UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}
