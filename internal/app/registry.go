package app

import (
	"database/sql"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-pto/internal/employee"
	"go-pto/internal/leavebalance"
	"go-pto/internal/leavepolicy"
	"go-pto/internal/leaverequest"
	"go-pto/internal/leavetype"
	"go-pto/internal/messaging/kafka"
	"go-pto/internal/middleware"
	"go-pto/internal/rbac"
	"go-pto/internal/rbac/infra"
	rbachttp "go-pto/internal/rbac/rbac_http"
	"go-pto/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	leavePolicyRepo := leavepolicy.NewRepository(gormDB)
	leaveBalanceRepo := leavebalance.NewRepository(db)
	leaveRequestRepo := leaverequest.NewRepository(gormDB, db)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Balance engine ---
	ledger := leavebalance.NewLedger(leaveBalanceRepo, leavePolicyRepo, logger)
	resolver := leavebalance.NewResolver(leaveBalanceRepo, leavePolicyRepo)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, logger)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, rdb, logger)
	leavePolicyService := leavepolicy.NewService(leavePolicyRepo, logger)
	leaveBalanceService := leavebalance.NewService(leaveBalanceRepo, resolver, leaveTypeRepo, logger)
	leaveRequestService := leaverequest.NewService(
		db, leaveRequestRepo, ledger, resolver,
		employeeRepo, leaveTypeRepo, counterRepo, outboxRepo, logger,
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	leavePolicyHandler := leavepolicy.NewHandler(leavePolicyService)
	leaveBalanceHandler := leavebalance.NewHandler(leaveBalanceService)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.Idempotency(rdb))
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		leavepolicy.RegisterRoutes(api, leavePolicyHandler, rbacService)
		leavebalance.RegisterRoutes(api, leaveBalanceHandler)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rbacService)
		rbachttp.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
