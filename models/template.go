package models

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/storage"
	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/google/uuid"
)

type ChecklistItemDef struct {
	Id                string `json:"id"`
	Section           string `json:"section"`
	ItemText          string `json:"item_text" binding:"required"`
	ExpectedCondition string `json:"expected_condition"`
	IsCritical        bool   `json:"is_critical"`
}

// InspectionTemplate is never deleted, only deactivated, so historical
// inspections keep resolving their template.
type InspectionTemplate struct {
	Id        string              `json:"id"`
	OrgId     string              `json:"org_id"`
	Name      string              `json:"name"`
	Type      InspectionType      `json:"type"`
	Frequency InspectionFrequency `json:"frequency"`
	Items     []ChecklistItemDef  `json:"items"`
	IsActive  *bool               `json:"is_active"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type NewInspectionTemplate struct {
	Name      string              `json:"name" binding:"required"`
	Type      InspectionType      `json:"type" binding:"required"`
	Frequency InspectionFrequency `json:"frequency" binding:"required"`
	Items     []ChecklistItemDef  `json:"items" binding:"required,min=1,dive"`
}

// TemplateCatalog is the read side the inspection engine depends on.
type TemplateCatalog interface {
	GetTemplate(ctx context.Context, orgId string, id string) (*InspectionTemplate, error)
	GetActiveTemplates(ctx context.Context, orgId string) ([]*InspectionTemplate, error)
}

/*
caches:
	TemplateList:$orgId
*/

// StoreCatalog is the storage-backed TemplateCatalog with a redis cache for
// the active-template list. Now is injectable for tests; it defaults to UTC
// wall time.
type StoreCatalog struct {
	Store storage.Store
	Now   func() time.Time
}

func NewStoreCatalog(store storage.Store) *StoreCatalog {
	return &StoreCatalog{Store: store, Now: func() time.Time { return time.Now().UTC() }}
}

func templateListCacheKey(orgId string) string {
	return "TemplateList:" + orgId
}

// validate input for both create & update
func (input *NewInspectionTemplate) validate() error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewValidationError("template name is required")
	}
	if !input.Type.Valid() {
		return utils.NewValidationError("invalid inspection type")
	}
	if !input.Frequency.Valid() {
		return utils.NewValidationError("invalid inspection frequency")
	}
	if len(input.Items) == 0 {
		return utils.NewValidationError("template requires at least one checklist item")
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.ItemText) == "" {
			return utils.NewValidationError("every checklist item requires text")
		}
	}
	return nil
}

func (c *StoreCatalog) CreateTemplate(ctx context.Context, orgId string, input *NewInspectionTemplate) (*InspectionTemplate, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := c.Now()
	template := &InspectionTemplate{
		Id:        uuid.NewString(),
		OrgId:     orgId,
		Name:      input.Name,
		Type:      input.Type,
		Frequency: input.Frequency,
		Items:     withItemIds(input.Items),
		IsActive:  utils.NewTrue(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Store.Insert(ctx, storage.CollectionTemplates, orgId, template.Id, template); err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(templateListCacheKey(orgId))
	return template, nil
}

func (c *StoreCatalog) UpdateTemplate(ctx context.Context, orgId string, id string, input *NewInspectionTemplate) (*InspectionTemplate, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	template, version, err := storage.GetAs[InspectionTemplate](ctx, c.Store, storage.CollectionTemplates, orgId, id)
	if err != nil {
		return nil, err
	}

	template.Name = input.Name
	template.Type = input.Type
	template.Frequency = input.Frequency
	template.Items = withItemIds(input.Items)
	template.UpdatedAt = c.Now()

	if err := c.Store.Put(ctx, storage.CollectionTemplates, orgId, id, template, version); err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(templateListCacheKey(orgId))
	return template, nil
}

// DeactivateTemplate retires a template. Templates are never deleted;
// historical inspections reference them by id.
func (c *StoreCatalog) DeactivateTemplate(ctx context.Context, orgId string, id string) (*InspectionTemplate, error) {
	template, version, err := storage.GetAs[InspectionTemplate](ctx, c.Store, storage.CollectionTemplates, orgId, id)
	if err != nil {
		return nil, err
	}

	template.IsActive = utils.NewFalse()
	template.UpdatedAt = c.Now()

	if err := c.Store.Put(ctx, storage.CollectionTemplates, orgId, id, template, version); err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(templateListCacheKey(orgId))
	return template, nil
}

func (c *StoreCatalog) GetTemplate(ctx context.Context, orgId string, id string) (*InspectionTemplate, error) {
	template, _, err := storage.GetAs[InspectionTemplate](ctx, c.Store, storage.CollectionTemplates, orgId, id)
	return template, err
}

func (c *StoreCatalog) GetActiveTemplates(ctx context.Context, orgId string) ([]*InspectionTemplate, error) {
	var cached []*InspectionTemplate
	exists, err := config.GetRedisObject(templateListCacheKey(orgId), &cached)
	if err == nil && exists {
		return cached, nil
	}

	templates, err := storage.ListAs[InspectionTemplate](ctx, c.Store, storage.CollectionTemplates, orgId)
	if err != nil {
		return nil, err
	}
	active := make([]*InspectionTemplate, 0, len(templates))
	for _, t := range templates {
		if t.IsActive != nil && *t.IsActive {
			active = append(active, t)
		}
	}

	// caching is best-effort
	_ = config.SetRedisObject(templateListCacheKey(orgId), active, 0)
	return active, nil
}

func (c *StoreCatalog) ListTemplates(ctx context.Context, orgId string) ([]*InspectionTemplate, error) {
	return storage.ListAs[InspectionTemplate](ctx, c.Store, storage.CollectionTemplates, orgId)
}

func withItemIds(items []ChecklistItemDef) []ChecklistItemDef {
	out := make([]ChecklistItemDef, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Id == "" {
			out[i].Id = uuid.NewString()
		}
	}
	return out
}
