package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/internal/config"
	"github.com/jakechorley/shift-admin/pkg/clients/apiclient"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/db"
	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

// maxTemplateOccurrences caps a single template expansion
const maxTemplateOccurrences = 400

var validate = validator.New()

// PlannerStore defines the database operations needed to plan and publish shifts
type PlannerStore interface {
	db.DraftStore
	InsertPublication(ctx context.Context, p db.Publication) error
}

// ShiftClient defines the API operations needed to publish and remove shifts
type ShiftClient interface {
	CreateShift(ctx context.Context, req apiclient.ShiftRequest) (*model.Shift, error)
	DeleteShift(ctx context.Context, id model.ID) (*model.Shift, error)
}

// DraftInput describes a single draft shift
type DraftInput struct {
	Date           string   `validate:"required,datetime=2006-01-02"`
	StartTime      string   `validate:"required,datetime=15:04"`
	EndTime        string   `validate:"required,datetime=15:04"`
	ShiftType      string   `validate:"required"`
	DepartmentID   model.ID `validate:"required"`
	RequiredRoleID model.ID
	RequiredCount  int `validate:"min=1"`
	Notes          string
}

// ShiftPlanner manages the draft -> published lifecycle. Drafts live in the local store
// until they are published to the backend.
type ShiftPlanner struct {
	store  PlannerStore
	client ShiftClient
	logger *zap.Logger
	now    func() time.Time
}

func NewShiftPlanner(store PlannerStore, client ShiftClient, logger *zap.Logger) *ShiftPlanner {
	return &ShiftPlanner{
		store:  store,
		client: client,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

// CreateDraft validates and stores a single draft
func (p *ShiftPlanner) CreateDraft(ctx context.Context, input DraftInput) (*db.Draft, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid draft: %w", err)
	}

	draft := p.newDraft(input, "", "")
	if err := p.store.InsertDrafts(ctx, []db.Draft{draft}); err != nil {
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}

	p.logger.Info("Draft created", zap.String("id", draft.ID), zap.String("date", draft.Date))
	return &draft, nil
}

// DraftsFromTemplate expands a shift template's recurrence between from and to (inclusive days)
// and stores one draft per occurrence, all sharing a batch id. departmentID overrides the
// template's department when set.
func (p *ShiftPlanner) DraftsFromTemplate(
	ctx context.Context,
	tmpl config.ShiftTemplate,
	from, to time.Time,
	departmentID model.ID,
) ([]db.Draft, error) {
	if departmentID == "" {
		departmentID = model.ID(tmpl.DepartmentID)
	}
	if departmentID == "" {
		return nil, fmt.Errorf("template %s has no department and none was given", tmpl.Name)
	}

	dates, err := expandRRule(tmpl.RRule, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to expand template %s: %w", tmpl.Name, err)
	}

	p.logger.Debug("Expanded template",
		zap.String("template", tmpl.Name),
		zap.String("rrule", tmpl.RRule),
		zap.Int("occurrences", len(dates)))

	if len(dates) == 0 {
		return []db.Draft{}, nil
	}

	batchID := uuid.New().String()
	drafts := make([]db.Draft, 0, len(dates))
	for _, date := range dates {
		input := DraftInput{
			Date:           date,
			StartTime:      tmpl.StartTime,
			EndTime:        tmpl.EndTime,
			ShiftType:      tmpl.ShiftType,
			DepartmentID:   departmentID,
			RequiredRoleID: model.ID(tmpl.RequiredRoleID),
			RequiredCount:  tmpl.RequiredCount,
		}
		if err := validate.Struct(input); err != nil {
			return nil, fmt.Errorf("invalid draft from template %s: %w", tmpl.Name, err)
		}
		drafts = append(drafts, p.newDraft(input, batchID, tmpl.Name))
	}

	if err := p.store.InsertDrafts(ctx, drafts); err != nil {
		return nil, fmt.Errorf("failed to store drafts: %w", err)
	}

	p.logger.Info("Drafts created from template",
		zap.String("template", tmpl.Name),
		zap.String("batch_id", batchID),
		zap.Int("count", len(drafts)))

	return drafts, nil
}

// ListDrafts returns all drafts ordered by date and start time
func (p *ShiftPlanner) ListDrafts(ctx context.Context) ([]db.Draft, error) {
	drafts, err := p.store.GetDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch drafts: %w", err)
	}
	db.SortDrafts(drafts)
	return drafts, nil
}

// PublishDraft creates the draft as a backend shift, records the publication and
// removes the draft. If the draft cannot be removed the created shift is still returned.
func (p *ShiftPlanner) PublishDraft(ctx context.Context, draftID string) (*model.Shift, error) {
	draft, err := p.findDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Publishing draft", zap.String("id", draft.ID), zap.String("date", draft.Date))

	created, err := p.client.CreateShift(ctx, apiclient.ShiftRequestFrom(draft.Shift()))
	if err != nil {
		return nil, fmt.Errorf("failed to publish draft %s: %w", draft.ID, err)
	}

	publication := db.Publication{
		ID:          uuid.New().String(),
		DraftID:     draft.ID,
		ShiftID:     created.ID.String(),
		ShiftDate:   draft.Date,
		PublishedAt: p.now(),
	}
	if err := p.store.InsertPublication(ctx, publication); err != nil {
		// The shift exists upstream now; keep going so the draft is not published twice
		p.logger.Warn("Failed to record publication", zap.String("draft_id", draft.ID), zap.Error(err))
	}

	if err := p.store.DeleteDraft(ctx, draft.ID); err != nil {
		return created, fmt.Errorf("shift %s published but failed to remove draft %s: %w", created.ID, draft.ID, err)
	}

	p.logger.Info("Draft published", zap.String("draft_id", draft.ID), zap.String("shift_id", created.ID.String()))
	return created, nil
}

// PublishBatch publishes every draft of a template batch in date order, stopping at the first failure.
// The shifts published before the failure are returned with the error.
func (p *ShiftPlanner) PublishBatch(ctx context.Context, batchID string) ([]model.Shift, error) {
	drafts, err := p.ListDrafts(ctx)
	if err != nil {
		return nil, err
	}

	var published []model.Shift
	for _, d := range drafts {
		if d.BatchID != batchID {
			continue
		}
		shift, err := p.PublishDraft(ctx, d.ID)
		if shift != nil {
			published = append(published, *shift)
		}
		if err != nil {
			return published, err
		}
	}

	if len(published) == 0 {
		return nil, fmt.Errorf("%w: no drafts in batch %s", db.ErrDraftNotFound, batchID)
	}
	return published, nil
}

// DeleteShift removes a shift by id. A draft is deleted locally without touching the backend;
// any other id is deleted upstream. The returned status says which happened.
func (p *ShiftPlanner) DeleteShift(ctx context.Context, id string) (model.ShiftStatus, error) {
	if id == "" {
		return "", fmt.Errorf("shift id is required")
	}

	err := p.store.DeleteDraft(ctx, id)
	if err == nil {
		p.logger.Info("Draft deleted", zap.String("id", id))
		return model.ShiftDraft, nil
	}
	if !errors.Is(err, db.ErrDraftNotFound) {
		return "", fmt.Errorf("failed to delete draft: %w", err)
	}

	if _, err := p.client.DeleteShift(ctx, model.ID(id)); err != nil {
		return "", fmt.Errorf("failed to delete shift %s: %w", id, err)
	}

	p.logger.Info("Published shift deleted", zap.String("id", id))
	return model.ShiftPublished, nil
}

func (p *ShiftPlanner) findDraft(ctx context.Context, id string) (*db.Draft, error) {
	drafts, err := p.store.GetDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch drafts: %w", err)
	}
	for i := range drafts {
		if drafts[i].ID == id {
			return &drafts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", db.ErrDraftNotFound, id)
}

func (p *ShiftPlanner) newDraft(input DraftInput, batchID, templateName string) db.Draft {
	return db.Draft{
		ID:             uuid.New().String(),
		BatchID:        batchID,
		TemplateName:   templateName,
		Date:           input.Date,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		ShiftType:      input.ShiftType,
		DepartmentID:   input.DepartmentID.String(),
		RequiredRoleID: input.RequiredRoleID.String(),
		RequiredCount:  input.RequiredCount,
		Notes:          input.Notes,
		CreatedAt:      p.now(),
	}
}

// expandRRule returns the YYYY-MM-DD dates a rule produces between from and to, inclusive.
// The rule is anchored at from so templates need no DTSTART of their own.
func expandRRule(rule string, from, to time.Time) ([]string, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return nil, fmt.Errorf("range ends %s before it starts %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule: %w", err)
	}
	r.DTStart(start)

	occurrences := r.Between(start, end, true)
	if len(occurrences) > maxTemplateOccurrences {
		return nil, fmt.Errorf("rrule produces %d shifts, more than the limit of %d", len(occurrences), maxTemplateOccurrences)
	}

	dates := make([]string, len(occurrences))
	for i, o := range occurrences {
		dates[i] = o.Format("2006-01-02")
	}
	return dates, nil
}
