package authorization

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := NewMemoryEnforcer()
	require.NoError(t, err)
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestAuthorizeRoleGrants(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		role    string
		object  string
		action  string
		allowed bool
	}{
		{"admin deletes fixed cost", RoleAdmin, ObjectFixedCost, ActionDelete, true},
		{"comercial simulates", RoleComercial, ObjectProduct, ActionSimulate, true},
		{"comercial reads raw materials", RoleComercial, ObjectRawMaterial, ActionView, true},
		{"comercial cannot edit raw materials", RoleComercial, ObjectRawMaterial, ActionUpdate, false},
		{"imposto creates raw materials", RoleImposto, ObjectRawMaterial, ActionCreate, true},
		{"imposto cannot create freights", RoleImposto, ObjectFreight, ActionCreate, false},
		{"logistica updates freights", RoleLogistica, ObjectFreight, ActionUpdate, true},
		{"logistica cannot simulate", RoleLogistica, ObjectProduct, ActionSimulate, false},
		{"logistica cannot read fixed costs", RoleLogistica, ObjectFixedCost, ActionView, false},
		{"comercial creates product groups", RoleComercial, ObjectProductGroup, ActionCreate, true},
		{"comercial cannot delete product groups", RoleComercial, ObjectProductGroup, ActionDelete, false},
		{"imposto cannot read product groups", RoleImposto, ObjectProductGroup, ActionView, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Authorize(ctx, "42", tc.role, tc.object, tc.action)
			if tc.allowed {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestAuthorizeRejectsUnknownInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.Authorize(ctx, "", RoleAdmin, ObjectProduct, ActionView), ErrInvalidActor)
	require.ErrorIs(t, svc.Authorize(ctx, "7", "guest", ObjectProduct, ActionView), ErrInvalidRole)
	require.ErrorIs(t, svc.Authorize(ctx, "7", RoleAdmin, "", ActionView), ErrInvalidObject)
	require.ErrorIs(t, svc.Authorize(ctx, "7", RoleAdmin, ObjectProduct, " "), ErrInvalidAction)
}

func TestAuthorizeFollowsReportedRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Authorize(ctx, "9", RoleAdmin, ObjectFreight, ActionDelete))
	// Same actor downgraded to imposto must lose the admin grant.
	require.ErrorIs(t, svc.Authorize(ctx, "9", RoleImposto, ObjectFreight, ActionDelete), ErrForbidden)
	require.NoError(t, svc.Authorize(ctx, "9", RoleAdmin, ObjectFreight, ActionDelete))
}

func TestAuthorizeDoesNotPersistActorBindings(t *testing.T) {
	enforcer, err := NewMemoryEnforcer()
	require.NoError(t, err)
	svc := NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
	ctx := context.Background()

	var wg sync.WaitGroup
	roles := []string{RoleAdmin, RoleImposto, RoleLogistica, RoleComercial}
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(role string) {
			defer wg.Done()
			_ = svc.Authorize(ctx, "11", role, ObjectProduct, ActionView)
		}(roles[i%len(roles)])
	}
	wg.Wait()

	grouping, err := enforcer.GetGroupingPolicy()
	require.NoError(t, err)
	require.Empty(t, grouping)
	require.ErrorIs(t, svc.Authorize(ctx, "11", RoleLogistica, ObjectFixedCost, ActionView), ErrForbidden)
}
