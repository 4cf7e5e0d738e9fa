package actor_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := map[string]actor.Role{
		"collector":  actor.Collector,
		"Checker":    actor.Checker,
		" ADMIN ":    actor.Admin,
		"specialist": actor.Specialist,
	}
	for raw, want := range tests {
		got, err := actor.ParseRole(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := actor.ParseRole("unknown")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = actor.ParseRole("supervisor")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "checker", actor.Checker.String())
	assert.Equal(t, "unknown", actor.Role(99).String())
	require.Error(t, actor.Role(99).Validate())
}

func TestNewActor(t *testing.T) {
	userID := kernel.NewUUID()

	a, err := actor.NewActor(userID, actor.Checker)
	require.NoError(t, err)
	require.NoError(t, a.Validate())
	assert.True(t, a.Is(userID))
	assert.False(t, a.Is(kernel.NewUUID()))
	assert.Equal(t, actor.Checker, a.Role())
	assert.False(t, a.IsAdmin())

	_, err = actor.NewActor(kernel.UUID{}, actor.UnknownRole)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	var zero actor.Actor
	require.ErrorIs(t, zero.Validate(), actor.ErrActorIsNotConstructed)
}
