package workflow

import (
	"context"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"bitbucket.org/northguard/safety_backend/storage"
	"gorm.io/gorm"
)

// SweepOverdueFindings emits a finding.overdue activity event for every open
// or in-progress finding past its due date. Overdue-ness itself is always
// computed on read; this sweep exists only so downstream notification
// consumers hear about it. Run it from cron (cmd/overdue-sweep); one event
// per finding per run.
func (e *Engine) SweepOverdueFindings(ctx context.Context, orgId string) (int, error) {
	findings, err := e.ListFindings(ctx, orgId)
	if err != nil {
		return 0, err
	}

	now := e.Clock.Now()
	emitted := 0
	for _, finding := range findings {
		if !finding.IsOverdue(now) {
			continue
		}
		e.emit(ctx, orgId, models.ActivityFindingOverdue, finding.Id)
		emitted++
	}
	return emitted, nil
}

// ListFindingOrgIds returns every org with findings on record, for sweeping
// across tenants.
func ListFindingOrgIds(ctx context.Context, db *gorm.DB) ([]string, error) {
	var orgIds []string
	err := db.WithContext(ctx).Model(&storage.DocumentRecord{}).
		Where("collection = ?", storage.CollectionFindings).
		Distinct("org_id").
		Pluck("org_id", &orgIds).Error
	if err != nil {
		config.LogError(config.GetLogger(), "overdueSweep.go", "ListFindingOrgIds", "Pluck", nil, err)
		return nil, err
	}
	return orgIds, nil
}
