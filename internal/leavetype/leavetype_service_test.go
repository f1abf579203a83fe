package leavetype_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-pto/internal/leavetype"
	leavetypeerrors "go-pto/internal/leavetype/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeLeaveTypeRepository struct {
	createFn              func(ctx context.Context, lt *leavetype.LeaveType) error
	findAllByCompanyFn    func(ctx context.Context, companyID string) ([]leavetype.LeaveType, error)
	findActiveByCompanyFn func(ctx context.Context, companyID string) ([]leavetype.LeaveType, error)
	findByIDAndCompanyFn  func(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error)
	updateFn              func(ctx context.Context, lt *leavetype.LeaveType) error
	deleteFn              func(ctx context.Context, companyID, id string) error
	codeExistsFn          func(ctx context.Context, companyID, code string) (bool, error)
}

func (f *fakeLeaveTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.createFn != nil {
		return f.createFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leavetype.LeaveType, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindActiveByCompany(ctx context.Context, companyID string) ([]leavetype.LeaveType, error) {
	if f.findActiveByCompanyFn != nil {
		return f.findActiveByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) CodeExists(ctx context.Context, companyID, code string) (bool, error) {
	if f.codeExistsFn != nil {
		return f.codeExistsFn(ctx, companyID, code)
	}
	return false, nil
}

func TestLeaveTypeService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success - specific approvers preserved in order", func(t *testing.T) {
		repo := &fakeLeaveTypeRepository{}
		rdb, redisMock := redismock.NewClientMock()
		svc := leavetype.NewService(repo, rdb, zap.NewNop())

		first := uuid.New().String()
		second := uuid.New().String()
		redisMock.ExpectDel(leavetype.GetOptionsKey(companyID)).SetVal(1)

		var created *leavetype.LeaveType
		repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			created = lt
			return nil
		}

		resp, err := svc.Create(ctx, companyID, leavetype.CreateLeaveTypeRequest{
			Name:               "Annual Leave",
			Code:               "ANNUAL",
			MultiLevelApproval: true,
			SpecificApprovers:  []string{first, second},
		})

		assert.NoError(t, err)
		assert.True(t, resp.IsActive)
		assert.True(t, resp.ShowInDepartmentCalendar)
		assert.Equal(t, []string{first, second}, resp.SpecificApprovers)
		assert.Equal(t, first, created.SpecificApprovers[0].String())
		assert.Equal(t, second, created.SpecificApprovers[1].String())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("negative - duplicate code", func(t *testing.T) {
		repo := &fakeLeaveTypeRepository{
			codeExistsFn: func(ctx context.Context, cid, code string) (bool, error) {
				return true, nil
			},
		}
		rdb, _ := redismock.NewClientMock()
		svc := leavetype.NewService(repo, rdb, zap.NewNop())

		_, err := svc.Create(ctx, companyID, leavetype.CreateLeaveTypeRequest{
			Name: "Annual Leave",
			Code: "ANNUAL",
		})

		assert.ErrorIs(t, err, leavetypeerrors.ErrCodeAlreadyUsed)
	})

	t.Run("negative - bad approver id", func(t *testing.T) {
		repo := &fakeLeaveTypeRepository{}
		rdb, _ := redismock.NewClientMock()
		svc := leavetype.NewService(repo, rdb, zap.NewNop())

		_, err := svc.Create(ctx, companyID, leavetype.CreateLeaveTypeRequest{
			Name:              "Annual Leave",
			Code:              "ANNUAL",
			SpecificApprovers: []string{"not-a-uuid"},
		})

		assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidApproverID)
	})
}

func TestLeaveTypeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		companyID := uuid.New().String()
		cacheKey := leavetype.GetOptionsKey(companyID)

		expected := []leavetype.LeaveTypeOption{
			{ID: uuid.New().String(), Name: "Annual Leave", Code: "ANNUAL"},
		}
		jsonResp, _ := json.Marshal(expected)

		repo := &fakeLeaveTypeRepository{
			findActiveByCompanyFn: func(ctx context.Context, cid string) ([]leavetype.LeaveType, error) {
				t.Fatal("repository must not be hit on cache hit")
				return nil, nil
			},
		}
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(cacheKey).SetVal(string(jsonResp))

		svc := leavetype.NewService(repo, rdb, zap.NewNop())
		opts, err := svc.GetOptions(ctx, companyID)

		assert.NoError(t, err)
		assert.Len(t, opts, 1)
		assert.Equal(t, "ANNUAL", opts[0].Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss loads from db and fills cache", func(t *testing.T) {
		companyID := uuid.New().String()
		cacheKey := leavetype.GetOptionsKey(companyID)

		typeID := uuid.New()
		repo := &fakeLeaveTypeRepository{
			findActiveByCompanyFn: func(ctx context.Context, cid string) ([]leavetype.LeaveType, error) {
				assert.Equal(t, companyID, cid)
				return []leavetype.LeaveType{
					{ID: typeID, Name: "Sick Leave", Code: "SICK", IsActive: true},
				}, nil
			},
		}

		expected, _ := json.Marshal([]leavetype.LeaveTypeOption{
			{ID: typeID.String(), Name: "Sick Leave", Code: "SICK"},
		})

		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(cacheKey).RedisNil()
		redisMock.ExpectSet(cacheKey, expected, 1*time.Hour).SetVal("OK")

		svc := leavetype.NewService(repo, rdb, zap.NewNop())
		opts, err := svc.GetOptions(ctx, companyID)

		assert.NoError(t, err)
		assert.Len(t, opts, 1)
		assert.Equal(t, "SICK", opts[0].Code)
	})

	t.Run("db error surfaces", func(t *testing.T) {
		companyID := uuid.New().String()
		repo := &fakeLeaveTypeRepository{
			findActiveByCompanyFn: func(ctx context.Context, cid string) ([]leavetype.LeaveType, error) {
				return nil, errors.New("database connection lost")
			},
		}
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(leavetype.GetOptionsKey(companyID)).RedisNil()

		svc := leavetype.NewService(repo, rdb, zap.NewNop())
		opts, err := svc.GetOptions(ctx, companyID)

		assert.Error(t, err)
		assert.Nil(t, opts)
	})
}

func TestLeaveTypeService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	typeID := uuid.New()

	t.Run("success - deactivate invalidates options cache", func(t *testing.T) {
		repo := &fakeLeaveTypeRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*leavetype.LeaveType, error) {
				return &leavetype.LeaveType{
					ID:        typeID,
					CompanyID: uuid.MustParse(cid),
					Name:      "Annual Leave",
					Code:      "ANNUAL",
					IsActive:  true,
				}, nil
			},
		}
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectDel(leavetype.GetOptionsKey(companyID)).SetVal(1)

		svc := leavetype.NewService(repo, rdb, zap.NewNop())
		inactive := false

		resp, err := svc.Update(ctx, companyID, typeID.String(), leavetype.UpdateLeaveTypeRequest{
			Name:     "Annual Leave",
			IsActive: &inactive,
		})

		assert.NoError(t, err)
		assert.False(t, resp.IsActive)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("negative - not found", func(t *testing.T) {
		repo := &fakeLeaveTypeRepository{}
		rdb, _ := redismock.NewClientMock()
		svc := leavetype.NewService(repo, rdb, zap.NewNop())

		_, err := svc.Update(ctx, companyID, typeID.String(), leavetype.UpdateLeaveTypeRequest{Name: "X"})

		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	})
}
