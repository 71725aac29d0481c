package authorization

import (
	"context"
	"errors"
)

const (
	RoleAdmin     = "admin"
	RoleComercial = "comercial"
	RoleImposto   = "imposto"
	RoleLogistica = "logistica"
)

const (
	ObjectProduct      = "product"
	ObjectRawMaterial  = "raw_material"
	ObjectFreight      = "freight"
	ObjectFixedCost    = "fixed_cost"
	ObjectProductGroup = "product_group"
)

const (
	ActionView     = "view"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionSimulate = "simulate"
)

var knownRoles = map[string]bool{
	RoleAdmin:     true,
	RoleComercial: true,
	RoleImposto:   true,
	RoleLogistica: true,
}

type Service interface {
	// Authorize checks whether actorID, acting as role, may perform action on object.
	Authorize(ctx context.Context, actorID, role, object, action string) error
}

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidRole   = errors.New("invalid_role")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)
