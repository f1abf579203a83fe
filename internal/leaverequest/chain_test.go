package leaverequest_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-pto/internal/leaverequest"
	leaverequesterrors "go-pto/internal/leaverequest/errors"
	"go-pto/internal/leavetype"
)

func TestBuildChain_SingleLevel(t *testing.T) {
	managerID := uuid.New()

	t.Run("routes to the manager", func(t *testing.T) {
		steps, err := leaverequest.BuildChain(&managerID, &leavetype.LeaveType{})
		assert.NoError(t, err)
		assert.Len(t, steps, 1)
		assert.Equal(t, managerID, steps[0].ApproverID)
		assert.Equal(t, 1, steps[0].Level)
		assert.Equal(t, 1, steps[0].Sequence)
	})

	t.Run("no manager means no chain", func(t *testing.T) {
		_, err := leaverequest.BuildChain(nil, &leavetype.LeaveType{})
		assert.ErrorIs(t, err, leaverequesterrors.ErrNoApproverAvailable)
	})
}

func TestBuildChain_MultiLevel(t *testing.T) {
	managerID := uuid.New()
	approverA := uuid.New()
	approverB := uuid.New()

	t.Run("manager first then specific approvers in order", func(t *testing.T) {
		lt := &leavetype.LeaveType{
			MultiLevelApproval: true,
			SpecificApprovers:  []uuid.UUID{approverA, approverB},
		}

		steps, err := leaverequest.BuildChain(&managerID, lt)
		assert.NoError(t, err)
		assert.Len(t, steps, 3)

		assert.Equal(t, managerID, steps[0].ApproverID)
		assert.Equal(t, 1, steps[0].Level)
		assert.Equal(t, approverA, steps[1].ApproverID)
		assert.Equal(t, 2, steps[1].Level)
		assert.Equal(t, approverB, steps[2].ApproverID)
		assert.Equal(t, 2, steps[2].Level)

		for i, step := range steps {
			assert.Equal(t, i+1, step.Sequence)
		}
	})

	t.Run("hierarchy disabled skips the manager and flattens levels", func(t *testing.T) {
		lt := &leavetype.LeaveType{
			MultiLevelApproval:       true,
			DisableHierarchyApproval: true,
			SpecificApprovers:        []uuid.UUID{approverA, approverB},
		}

		steps, err := leaverequest.BuildChain(&managerID, lt)
		assert.NoError(t, err)
		assert.Len(t, steps, 2)
		assert.Equal(t, approverA, steps[0].ApproverID)
		assert.Equal(t, 1, steps[0].Level)
		assert.Equal(t, 1, steps[0].Sequence)
		assert.Equal(t, approverB, steps[1].ApproverID)
		assert.Equal(t, 1, steps[1].Level)
		assert.Equal(t, 2, steps[1].Sequence)
	})

	t.Run("missing manager still yields specific approvers", func(t *testing.T) {
		lt := &leavetype.LeaveType{
			MultiLevelApproval: true,
			SpecificApprovers:  []uuid.UUID{approverA},
		}

		steps, err := leaverequest.BuildChain(nil, lt)
		assert.NoError(t, err)
		assert.Len(t, steps, 1)
		assert.Equal(t, approverA, steps[0].ApproverID)
		assert.Equal(t, 2, steps[0].Level)
	})

	t.Run("dead end when nothing is configured", func(t *testing.T) {
		lt := &leavetype.LeaveType{
			MultiLevelApproval:       true,
			DisableHierarchyApproval: true,
		}

		_, err := leaverequest.BuildChain(&managerID, lt)
		assert.ErrorIs(t, err, leaverequesterrors.ErrNoApproverAvailable)
	})
}
