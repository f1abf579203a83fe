package leavetype

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	leavetypeerrors "go-pto/internal/leavetype/errors"
	"go-pto/internal/shared/apperror"
)

const OptionsKeyPrefix = "leave_types:options:"

func GetOptionsKey(companyID string) string {
	return OptionsKeyPrefix + companyID
}

type Service interface {
	Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (*LeaveTypeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveTypeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]LeaveTypeOption, error)
	GetByID(ctx context.Context, companyID, id string) (*LeaveTypeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateLeaveTypeRequest) (*LeaveTypeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: logger.Named("leavetype_service"),
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (*LeaveTypeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, apperror.InvalidField("company_id")
	}

	approvers, err := parseApprovers(req.SpecificApprovers)
	if err != nil {
		return nil, leavetypeerrors.ErrInvalidApproverID
	}

	exists, err := s.repo.CodeExists(ctx, companyID, req.Code)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to check code", 500)
	}
	if exists {
		return nil, leavetypeerrors.ErrCodeAlreadyUsed
	}

	showInCalendar := true
	if req.ShowInDepartmentCalendar != nil {
		showInCalendar = *req.ShowInDepartmentCalendar
	}

	lt := &LeaveType{
		ID:                       uuid.New(),
		CompanyID:                companyUUID,
		Name:                     req.Name,
		Code:                     req.Code,
		Color:                    req.Color,
		MultiLevelApproval:       req.MultiLevelApproval,
		DisableHierarchyApproval: req.DisableHierarchyApproval,
		SpecificApprovers:        approvers,
		ShowInDepartmentCalendar: showInCalendar,
		IsActive:                 true,
	}

	if err := s.repo.Create(ctx, lt); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to create leave type", 500)
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("leave type created",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("company_id", companyID),
		zap.String("code", lt.Code),
	)

	resp := toResponse(lt)
	return &resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to list leave types", 500)
	}

	responses := make([]LeaveTypeResponse, 0, len(types))
	for i := range types {
		responses = append(responses, toResponse(&types[i]))
	}
	return responses, nil
}

// GetOptions serves the active-type dropdown. Redis first, then singleflight
// so a cold cache triggers a single database read per company.
func (s *service) GetOptions(ctx context.Context, companyID string) ([]LeaveTypeOption, error) {
	cacheKey := GetOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var opts []LeaveTypeOption
			if json.Unmarshal([]byte(cached), &opts) == nil {
				return opts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		types, err := s.repo.FindActiveByCompany(ctx, companyID)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to list leave type options", 500)
		}

		opts := make([]LeaveTypeOption, 0, len(types))
		for i := range types {
			opts = append(opts, LeaveTypeOption{
				ID:    types[i].ID.String(),
				Name:  types[i].Name,
				Code:  types[i].Code,
				Color: types[i].Color,
			})
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(opts); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return opts, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]LeaveTypeOption), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (*LeaveTypeResponse, error) {
	lt, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load leave type", 500)
	}

	resp := toResponse(lt)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateLeaveTypeRequest) (*LeaveTypeResponse, error) {
	lt, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load leave type", 500)
	}

	approvers, err := parseApprovers(req.SpecificApprovers)
	if err != nil {
		return nil, leavetypeerrors.ErrInvalidApproverID
	}

	lt.Name = req.Name
	lt.Color = req.Color
	lt.MultiLevelApproval = req.MultiLevelApproval
	lt.DisableHierarchyApproval = req.DisableHierarchyApproval
	lt.SpecificApprovers = approvers
	if req.ShowInDepartmentCalendar != nil {
		lt.ShowInDepartmentCalendar = *req.ShowInDepartmentCalendar
	}
	if req.IsActive != nil {
		lt.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, lt); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update leave type", 500)
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("leave type updated", zap.String("leave_type_id", id))

	resp := toResponse(lt)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to delete leave type", 500)
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("leave type deleted", zap.String("leave_type_id", id))
	return nil
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate leave type options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func parseApprovers(ids []string) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	approvers := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		approvers = append(approvers, id)
	}
	return approvers, nil
}

func toResponse(lt *LeaveType) LeaveTypeResponse {
	approvers := make([]string, 0, len(lt.SpecificApprovers))
	for _, id := range lt.SpecificApprovers {
		approvers = append(approvers, id.String())
	}
	return LeaveTypeResponse{
		ID:                       lt.ID.String(),
		CompanyID:                lt.CompanyID.String(),
		Name:                     lt.Name,
		Code:                     lt.Code,
		Color:                    lt.Color,
		MultiLevelApproval:       lt.MultiLevelApproval,
		DisableHierarchyApproval: lt.DisableHierarchyApproval,
		SpecificApprovers:        approvers,
		ShowInDepartmentCalendar: lt.ShowInDepartmentCalendar,
		IsActive:                 lt.IsActive,
	}
}
