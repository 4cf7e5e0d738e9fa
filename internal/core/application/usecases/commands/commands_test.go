package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateShipmentCommand(t *testing.T) {
	_, err := commands.NewCreateShipmentCommand(header(), nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	specs := lineSpecs(t)
	cmd, err := commands.NewCreateShipmentCommand(header(), specs)
	require.NoError(t, err)
	specs[0].SKU = "changed"
	assert.Equal(t, "SKU-1", cmd.Lines()[0].SKU)
	require.NoError(t, cmd.Validate())
}

func TestNewAcquireLockCommand(t *testing.T) {
	_, err := commands.NewAcquireLockCommand(kernel.UUID{}, actor.Actor{}, false)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, actor.ErrActorIsNotConstructed)

	id := kernel.NewUUID()
	cmd, err := commands.NewAcquireLockCommand(id, newActor(t, actor.Collector), true)
	require.NoError(t, err)
	assert.Equal(t, id, cmd.TaskID())
	assert.True(t, cmd.ConfirmTakeOver())
}

func TestNewSubmitForReviewCommand_NegativePlaces(t *testing.T) {
	places := -1
	_, err := commands.NewSubmitForReviewCommand(kernel.NewUUID(), newActor(t, actor.Collector), nil, &places)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestNewConfirmTaskCommand_InvalidDictator(t *testing.T) {
	dictator := kernel.UUID{}
	_, err := commands.NewConfirmTaskCommand(kernel.NewUUID(), newActor(t, actor.Checker), nil, &dictator, nil)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewAdminResetCommand_InvalidMode(t *testing.T) {
	_, err := commands.NewAdminResetCommand(kernel.NewUUID(), newActor(t, actor.Admin), lifecycle.ResetMode("wipe"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewSaveProgressCommand_CopiesLines(t *testing.T) {
	lines := []task.LineUpdate{{LineID: kernel.NewUUID()}}
	cmd, err := commands.NewSaveProgressCommand(kernel.NewUUID(), newActor(t, actor.Collector), lines)
	require.NoError(t, err)

	lines[0].Done = true
	assert.False(t, cmd.Lines()[0].Done)
}

func TestCommands_NotConstructed(t *testing.T) {
	assert.ErrorIs(t, commands.AcquireLockCommand{}.Validate(), commands.ErrAcquireLockCommandIsNotConstructed)
	assert.ErrorIs(t, commands.ReleaseLockCommand{}.Validate(), commands.ErrReleaseLockCommandIsNotConstructed)
	assert.ErrorIs(t, commands.SaveProgressCommand{}.Validate(), commands.ErrSaveProgressCommandIsNotConstructed)
	assert.ErrorIs(t, commands.SubmitForReviewCommand{}.Validate(), commands.ErrSubmitForReviewCommandIsNotConstructed)
	assert.ErrorIs(t, commands.ConfirmTaskCommand{}.Validate(), commands.ErrConfirmTaskCommandIsNotConstructed)
	assert.ErrorIs(t, commands.AdminResetCommand{}.Validate(), commands.ErrAdminResetCommandIsNotConstructed)
}
