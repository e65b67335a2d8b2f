package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/labeling"
)

// LabelTemplateModel is the GORM model for the label_templates table.
// Paper configuration and elements are stored as JSON documents; the version
// column doubles as the optimistic concurrency token.
type LabelTemplateModel struct {
	TenantAggregateModel
	Name      string `gorm:"type:varchar(100);not null"`
	PaperSize string `gorm:"column:paper_size;type:varchar(20);not null;default:'A4'"`
	Config    string `gorm:"type:jsonb;not null"`
	Elements  string `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for LabelTemplateModel
func (LabelTemplateModel) TableName() string {
	return "label_templates"
}

// ToDomain converts LabelTemplateModel to the domain aggregate
func (m *LabelTemplateModel) ToDomain() (*labeling.LabelTemplate, error) {
	var cfg labeling.PaperConfig
	if err := json.Unmarshal([]byte(m.Config), &cfg); err != nil {
		return nil, fmt.Errorf("label template %s has malformed config: %w", m.ID, err)
	}
	var elements []labeling.Element
	if err := json.Unmarshal([]byte(m.Elements), &elements); err != nil {
		return nil, fmt.Errorf("label template %s has malformed elements: %w", m.ID, err)
	}

	template := &labeling.LabelTemplate{
		Name:     m.Name,
		Config:   cfg,
		Elements: elements,
	}
	m.PopulateTenantAggregateRoot(&template.TenantAggregateRoot)
	return template, nil
}

// LabelTemplateModelFromDomain creates a LabelTemplateModel from the domain aggregate
func LabelTemplateModelFromDomain(t *labeling.LabelTemplate) (*LabelTemplateModel, error) {
	configJSON, err := json.Marshal(t.Config)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize template config: %w", err)
	}
	elements := t.Elements
	if elements == nil {
		elements = []labeling.Element{}
	}
	elementsJSON, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize template elements: %w", err)
	}

	model := &LabelTemplateModel{
		Name:      t.Name,
		PaperSize: string(t.Config.PaperSize),
		Config:    string(configJSON),
		Elements:  string(elementsJSON),
	}
	model.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	return model, nil
}

// LabelSettingsModel is the GORM model for the label_settings table.
// One row per tenant; the default pointer may reference no template.
type LabelSettingsModel struct {
	TenantAggregateModel
	DefaultTemplateID *uuid.UUID `gorm:"column:default_template_id;type:uuid"`
}

// TableName returns the table name for LabelSettingsModel
func (LabelSettingsModel) TableName() string {
	return "label_settings"
}

// ToDomain converts LabelSettingsModel to the domain settings
func (m *LabelSettingsModel) ToDomain() *labeling.LabelSettings {
	settings := &labeling.LabelSettings{
		DefaultTemplateID: m.DefaultTemplateID,
	}
	m.PopulateTenantAggregateRoot(&settings.TenantAggregateRoot)
	return settings
}

// LabelSettingsModelFromDomain creates a LabelSettingsModel from the domain settings
func LabelSettingsModelFromDomain(s *labeling.LabelSettings) *LabelSettingsModel {
	model := &LabelSettingsModel{
		DefaultTemplateID: s.DefaultTemplateID,
	}
	model.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return model
}

// LabelJobModel is the GORM model for the label_jobs table
type LabelJobModel struct {
	TenantAggregateModel
	TemplateID   uuid.UUID  `gorm:"column:template_id;type:uuid;not null;index"`
	OrderID      uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	OrderNumber  string     `gorm:"column:order_number;type:varchar(100);not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ArtifactPath string     `gorm:"column:artifact_path;type:text"`
	ArtifactURL  string     `gorm:"column:artifact_url;type:text"`
	ErrorMessage string     `gorm:"column:error_message;type:text"`
	RenderedAt   *time.Time `gorm:"column:rendered_at"`
}

// TableName returns the table name for LabelJobModel
func (LabelJobModel) TableName() string {
	return "label_jobs"
}

// ToDomain converts LabelJobModel to the domain job
func (m *LabelJobModel) ToDomain() *labeling.LabelJob {
	job := &labeling.LabelJob{
		TemplateID:   m.TemplateID,
		OrderID:      m.OrderID,
		OrderNumber:  m.OrderNumber,
		Status:       labeling.JobStatus(m.Status),
		ArtifactPath: m.ArtifactPath,
		ArtifactURL:  m.ArtifactURL,
		ErrorMessage: m.ErrorMessage,
		RenderedAt:   m.RenderedAt,
	}
	m.PopulateTenantAggregateRoot(&job.TenantAggregateRoot)
	return job
}

// LabelJobModelFromDomain creates a LabelJobModel from the domain job
func LabelJobModelFromDomain(j *labeling.LabelJob) *LabelJobModel {
	model := &LabelJobModel{
		TemplateID:   j.TemplateID,
		OrderID:      j.OrderID,
		OrderNumber:  j.OrderNumber,
		Status:       string(j.Status),
		ArtifactPath: j.ArtifactPath,
		ArtifactURL:  j.ArtifactURL,
		ErrorMessage: j.ErrorMessage,
		RenderedAt:   j.RenderedAt,
	}
	model.FromDomainTenantAggregateRoot(j.TenantAggregateRoot)
	return model
}
