package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	employeeerrors "go-pto/internal/employee/errors"
	"go-pto/internal/events"
	"go-pto/internal/messaging/kafka"
	"go-pto/internal/shared/apperror"
	"go-pto/internal/shared/contextutil"
	"go-pto/internal/shared/counter"
)

type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (*EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (*EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (*EmployeeResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	counterRepo counter.Repository
	outboxRepo  kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger *zap.Logger,
) Service {
	return &service{
		db:          db,
		repo:        repo,
		counterRepo: counterRepo,
		outboxRepo:  outboxRepo,
		logger:      logger.Named("employee_service"),
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, employeeerrors.ErrInvalidCompanyID
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return nil, employeeerrors.ErrInvalidHireDate
	}

	var managerID *uuid.UUID
	if req.ManagerID != nil && *req.ManagerID != "" {
		parsed, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return nil, employeeerrors.ErrInvalidManagerID
		}
		if _, err := s.repo.FindByIDAndCompany(ctx, companyID, parsed.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, employeeerrors.ErrManagerNotInCompany
			}
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to verify manager", 500)
		}
		managerID = &parsed
	}

	exists, err := s.repo.EmailExists(ctx, companyID, req.Email)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to check email", 500)
	}
	if exists {
		return nil, employeeerrors.ErrEmailAlreadyUsed
	}

	seq, err := s.counterRepo.GetNextValue(ctx, companyID, "employee_number")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to allocate employee number", 500)
	}

	emp := &Employee{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeNumber: fmt.Sprintf("EMP-%06d", seq),
		FullName:       req.FullName,
		Email:          req.Email,
		ManagerID:      managerID,
		HireDate:       hireDate,
		IsActive:       true,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to begin transaction", 500)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, emp); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to create employee", 500)
	}

	requestID := contextutil.GetRequestID(ctx)
	payload, err := json.Marshal(events.EmployeeCreatedEvent{
		EventType:  "employee.created",
		RequestID:  requestID,
		EmployeeID: emp.ID.String(),
		CompanyID:  emp.CompanyID.String(),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to encode event", 500)
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: "employee",
		AggregateID:   emp.ID.String(),
		EventType:     "employee.created",
		Topic:         events.EmployeeCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := s.outboxRepo.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to enqueue event", 500)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to commit transaction", 500)
	}

	s.logger.Info("employee created",
		zap.String("employee_id", emp.ID.String()),
		zap.String("company_id", companyID),
		zap.String("employee_number", emp.EmployeeNumber),
	)

	resp := toResponse(emp)
	return &resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, employeeerrors.ErrInvalidCompanyID
	}

	employees, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to list employees", 500)
	}

	responses := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, toResponse(&employees[i]))
	}
	return responses, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (*EmployeeResponse, error) {
	emp, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load employee", 500)
	}

	resp := toResponse(emp)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	emp, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load employee", 500)
	}

	emp.FullName = req.FullName
	if req.ManagerID != nil {
		if *req.ManagerID == "" {
			emp.ManagerID = nil
		} else {
			parsed, err := uuid.Parse(*req.ManagerID)
			if err != nil {
				return nil, employeeerrors.ErrInvalidManagerID
			}
			if parsed == emp.ID {
				return nil, employeeerrors.ErrInvalidManagerID
			}
			if _, err := s.repo.FindByIDAndCompany(ctx, companyID, parsed.String()); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, employeeerrors.ErrManagerNotInCompany
				}
				return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to verify manager", 500)
			}
			emp.ManagerID = &parsed
		}
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update employee", 500)
	}

	resp := toResponse(emp)
	return &resp, nil
}

func toResponse(e *Employee) EmployeeResponse {
	var managerID *string
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		managerID = &v
	}
	return EmployeeResponse{
		ID:             e.ID.String(),
		CompanyID:      e.CompanyID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FullName:       e.FullName,
		Email:          e.Email,
		ManagerID:      managerID,
		HireDate:       e.HireDate.Format("2006-01-02"),
		IsActive:       e.IsActive,
	}
}
