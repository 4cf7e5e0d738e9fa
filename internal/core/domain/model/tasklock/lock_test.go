package tasklock_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lockTime = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func TestNewLock(t *testing.T) {
	taskID := kernel.NewUUID()
	userID := kernel.NewUUID()

	l, err := tasklock.NewLock(taskID, userID, true, lockTime)

	require.NoError(t, err)
	require.NoError(t, l.Validate())
	assert.Equal(t, taskID, l.TaskID())
	assert.True(t, l.IsHeldBy(userID))
	assert.Equal(t, lockTime, l.LockedAt())
	assert.Equal(t, lockTime, l.LastHeartbeat())

	events := l.PullEvents()
	require.Len(t, events, 1)
	acquired := events[0].(tasklock.Acquired)
	assert.True(t, acquired.Takeover)
	assert.Equal(t, taskID, acquired.AggregateID())
}

func TestRestoreLock_Validation(t *testing.T) {
	_, err := tasklock.RestoreLock(kernel.UUID{}, kernel.NewUUID(), lockTime, lockTime)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = tasklock.RestoreLock(kernel.NewUUID(), kernel.NewUUID(), time.Time{}, lockTime)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = tasklock.RestoreLock(kernel.NewUUID(), kernel.NewUUID(), lockTime, lockTime.Add(-time.Second))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	var zero *tasklock.Lock
	require.ErrorIs(t, zero.Validate(), tasklock.ErrLockIsNotConstructed)
}

func TestLock_Heartbeat(t *testing.T) {
	l, _ := tasklock.RestoreLock(kernel.NewUUID(), kernel.NewUUID(), lockTime, lockTime)

	l.Heartbeat(lockTime.Add(time.Minute))
	assert.Equal(t, lockTime.Add(time.Minute), l.LastHeartbeat())

	l.Heartbeat(lockTime)
	assert.Equal(t, lockTime.Add(time.Minute), l.LastHeartbeat())
	assert.Equal(t, lockTime, l.LockedAt())
}

func TestLock_Release(t *testing.T) {
	admin := kernel.NewUUID()
	l, _ := tasklock.RestoreLock(kernel.NewUUID(), kernel.NewUUID(), lockTime, lockTime)

	l.Release(tasklock.ReasonReset, admin, lockTime.Add(time.Hour))

	events := l.PullEvents()
	require.Len(t, events, 1)
	released := events[0].(tasklock.Released)
	assert.Equal(t, tasklock.ReasonReset, released.Reason)
	assert.Equal(t, admin, *released.By)
	assert.Equal(t, tasklock.EventReleased, released.EventType())
}

func TestRequireHolder(t *testing.T) {
	holder := kernel.NewUUID()
	l, _ := tasklock.RestoreLock(kernel.NewUUID(), holder, lockTime, lockTime)

	require.NoError(t, tasklock.RequireHolder(l, holder))

	err := tasklock.RequireHolder(l, kernel.NewUUID())
	assert.Equal(t, errs.CodeNotLockHolder, errs.CodeOf(err))
	var contested *tasklock.ContestedError
	require.True(t, errors.As(err, &contested))
	assert.Equal(t, holder, contested.Holder)

	err = tasklock.RequireHolder(nil, holder)
	assert.Equal(t, errs.CodeNotLockHolder, errs.CodeOf(err))
}
