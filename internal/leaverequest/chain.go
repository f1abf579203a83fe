package leaverequest

import (
	"github.com/google/uuid"

	leaverequesterrors "go-pto/internal/leaverequest/errors"
	"go-pto/internal/leavetype"
)

// ChainStep is one planned approval before it is persisted.
type ChainStep struct {
	ApproverID uuid.UUID
	Level      int
	Sequence   int
}

// BuildChain plans the ordered approver list for a submission from the live
// leave type configuration.
//
// Single-level types route to the requester's manager alone. Multi-level
// types take the manager first (unless hierarchy approval is disabled) and
// then every configured specific approver in list order. Levels group the
// manager tier apart from the specific-approver tier for display; they do not
// gate processing order.
//
// An empty result is an error: a request nothing can advance must never be
// created.
func BuildChain(managerID *uuid.UUID, lt *leavetype.LeaveType) ([]ChainStep, error) {
	var steps []ChainStep

	if !lt.MultiLevelApproval {
		if managerID == nil {
			return nil, leaverequesterrors.ErrNoApproverAvailable
		}
		return []ChainStep{{ApproverID: *managerID, Level: 1, Sequence: 1}}, nil
	}

	hierarchyActive := !lt.DisableHierarchyApproval
	if hierarchyActive && managerID != nil {
		steps = append(steps, ChainStep{ApproverID: *managerID, Level: 1})
	}

	specificLevel := 1
	if hierarchyActive {
		specificLevel = 2
	}
	for _, approverID := range lt.SpecificApprovers {
		steps = append(steps, ChainStep{ApproverID: approverID, Level: specificLevel})
	}

	if len(steps) == 0 {
		return nil, leaverequesterrors.ErrNoApproverAvailable
	}

	for i := range steps {
		steps[i].Sequence = i + 1
	}
	return steps, nil
}
