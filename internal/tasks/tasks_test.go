package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/storage/memory"
	"github.com/mizannoor/taskflow/internal/types"
)

func TestCreateRequiresTitle(t *testing.T) {
	svc := NewService(memory.New())

	_, err := svc.Create(context.Background(), "   ", "", "test")
	require.Error(t, err)
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()

	task, err := svc.Create(ctx, "Ship the release", "cut and tag", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	require.Equal(t, types.StatusPending, task.Status)

	got, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, "Ship the release", got.Title)
}

func TestDeleteRunsHooksBeforeRemoval(t *testing.T) {
	store := memory.New()
	svc := NewService(store)
	ctx := context.Background()

	task, err := svc.Create(ctx, "doomed", "", "test")
	require.NoError(t, err)

	var hookOrder []string
	svc.RegisterDeleteHook(func(ctx context.Context, taskID string) {
		require.Equal(t, task.ID, taskID)
		// The task must still exist while hooks run
		existing, err := store.GetTask(ctx, taskID)
		require.NoError(t, err)
		require.NotNil(t, existing)
		hookOrder = append(hookOrder, "cascade")
	})

	require.NoError(t, svc.Delete(ctx, task.ID, "test"))
	require.Equal(t, []string{"cascade"}, hookOrder)

	got, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDeleteMissingTask(t *testing.T) {
	svc := NewService(memory.New())

	err := svc.Delete(context.Background(), "tf-missing", "test")
	require.True(t, errors.Is(err, storage.ErrTaskNotFound))
}
