package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/supportbot/support/gateway"
)

func TestIsAdminAllowList(t *testing.T) {
	f := newFixture(100, 200)
	ctx := context.Background()

	require.True(t, f.engine.IsAdmin(ctx, 100))
	require.True(t, f.engine.IsAdmin(ctx, 200))
	require.False(t, f.engine.IsAdmin(ctx, 300))
}

func TestIsAdminByChannelRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.gw.roles[10] = gateway.RoleAdministrator
	f.gw.roles[11] = gateway.RoleCreator
	f.gw.roles[12] = gateway.Role("member")

	require.True(t, f.engine.IsAdmin(ctx, 10))
	require.True(t, f.engine.IsAdmin(ctx, 11))
	require.False(t, f.engine.IsAdmin(ctx, 12))
}

func TestIsAdminFailsClosed(t *testing.T) {
	f := newFixture()
	f.gw.roleErr = errors.New("chat not found")

	require.False(t, f.engine.IsAdmin(context.Background(), 100))
}

func TestAllowListSkipsRoleLookup(t *testing.T) {
	f := newFixture(100)
	f.gw.roleErr = errors.New("unavailable")

	require.True(t, f.engine.IsAdmin(context.Background(), 100))
}
