package friendship

import (
	"testing"

	"filmsocial/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Exhaustive(t *testing.T) {
	expected := 0
	for _, status := range statuses {
		roles := []role{roleInitiator, roleRecipient}
		if status == statusAbsent {
			roles = []role{roleNone}
		}
		for _, op := range Operations {
			for _, r := range roles {
				expected++
				_, ok := table[key{status, op, r}]
				assert.True(t, ok, "missing transition for status=%q op=%q role=%d", status, op, r)
			}
		}
	}
	assert.Len(t, table, expected, "table has entries for unreachable keys")
}

func TestTable_CreatesOnlyFromAbsent(t *testing.T) {
	for k, tr := range table {
		if tr.effect == effectCreate {
			assert.Equal(t, statusAbsent, k.status, "create from %q via %q", k.status, k.op)
		}
		if k.status == statusAbsent {
			assert.NotEqual(t, effectUpdate, tr.effect)
			assert.NotEqual(t, effectDelete, tr.effect)
		}
	}
}

func TestTable_OnlyUnblockDeletes(t *testing.T) {
	for k, tr := range table {
		if tr.effect == effectDelete {
			assert.Equal(t, key{models.StatusBlocked, OpUnblock, roleInitiator}, k)
		}
	}
}

func TestResolve_Roles(t *testing.T) {
	f := models.NewFriendship(1, 2, models.StatusRequested)

	tr, err := resolve(f, OpAccept, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, tr.next)

	tr, err = resolve(f, OpAccept, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, tr.err, ErrInvalidRequest)

	tr, err = resolve(nil, OpAccept, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, tr.err, ErrRequestNotFound)
}

func TestResolve_UnknownStatus(t *testing.T) {
	f := models.NewFriendship(1, 2, models.FriendshipStatus("muted"))
	_, err := resolve(f, OpBlock, 1)
	assert.Error(t, err)
}

func TestTransitionApply(t *testing.T) {
	f := models.NewFriendship(1, 2, models.StatusAccepted)

	update(models.StatusRequested, targetInitiates).apply(f, 1, 2)
	assert.Equal(t, uint(2), f.InitiatorID)
	assert.Equal(t, uint(1), f.RecipientID())
	assert.Equal(t, models.StatusRequested, f.Status)

	update(models.StatusBlocked, actorInitiates).apply(f, 1, 2)
	assert.Equal(t, uint(1), f.InitiatorID)
	assert.Equal(t, models.StatusBlocked, f.Status)

	update(models.StatusBlocked, keep).apply(f, 2, 1)
	assert.Equal(t, uint(1), f.InitiatorID)
}
