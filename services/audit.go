package services

import (
	"github.com/alphabatem/common/context"

	"github.com/grouppal/grouppal/model"
)

// AuditService is the append-only action log. It only talks to the store;
// mirroring entries to an audit chat is the pipeline's concern, hooked in
// after a successful write, so store code never touches messaging.
type AuditService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const AUDIT_SVC = "audit_svc"

func (svc AuditService) Id() string {
	return AUDIT_SVC
}

func (svc *AuditService) Configure(ctx *context.Context) error {
	svc.sqlSvc = ctx.Service(POSTGRES_SVC).(*PostgresService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuditService) Start() error {
	return nil
}

func (svc *AuditService) Append(userID int64, action string) error {
	return svc.sqlSvc.AppendLog(userID, action)
}

func (svc *AuditService) Recent(limit int) ([]model.AuditLog, error) {
	return svc.sqlSvc.ListRecentLogs(limit)
}
