// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Project
// aggregate, its 1:1 Briefing, and the append-only ProjectLog trail.
//
// Error semantics:
//   - When a project is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Status transitions are decided in the service layer; these functions only
// persist the fields they are handed. UpdateProject takes a column map so a
// partial transition (status + artifact + feedback) lands in one UPDATE.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
)

// CreateProject inserts a new Project row in PENDING with the raw briefing
// JSON attached.
func CreateProject(ctx context.Context, db *gorm.DB, userID string, data datatypes.JSON) (*domain.Project, error) {
	p := &domain.Project{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    domain.StatusPending,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject fetches a project by ID, or ErrNotFound.
func GetProject(ctx context.Context, db *gorm.DB, id string) (*domain.Project, error) {
	var p domain.Project
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProjectForUser fetches a project by ID enforcing ownership, or
// ErrNotFound when the project is absent or owned by someone else.
func GetProjectForUser(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Project, error) {
	var p domain.Project
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountProjects returns the number of projects for userID; an empty userID
// counts all projects.
func CountProjects(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Project{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// ListProjectsPage returns a page of projects ordered by creation time
// descending. userID and status filters are optional (empty means all).
func ListProjectsPage(ctx context.Context, db *gorm.DB, userID string, status domain.ProjectStatus, offset, limit int) ([]domain.Project, error) {
	q := db.WithContext(ctx).Model(&domain.Project{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Project
	err := q.Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateProject applies a column map to one project. Returns ErrNotFound
// when no row was affected.
func UpdateProject(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProjectStatus is the common single-column transition write.
func UpdateProjectStatus(ctx context.Context, db *gorm.DB, id string, status domain.ProjectStatus) error {
	return UpdateProject(ctx, db, id, map[string]any{"status": status})
}

// ProjectStatusCounts returns the number of projects per lifecycle state,
// feeding the admin reporting endpoint.
func ProjectStatusCounts(ctx context.Context, db *gorm.DB) (map[domain.ProjectStatus]int64, error) {
	var rows []struct {
		Status domain.ProjectStatus
		N      int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Project{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.ProjectStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

// UpsertBriefing creates or refreshes the typed briefing for a project.
func UpsertBriefing(ctx context.Context, db *gorm.DB, b *domain.Briefing) (*domain.Briefing, error) {
	var existing domain.Briefing
	err := db.WithContext(ctx).
		Where("project_id = ?", b.ProjectID).
		First(&existing).Error
	switch {
	case err == nil:
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
		if err := db.WithContext(ctx).Save(b).Error; err != nil {
			return nil, err
		}
		return b, nil
	case err == gorm.ErrRecordNotFound:
		b.ID = uuid.NewString()
		b.CreatedAt = time.Now().UTC()
		if err := db.WithContext(ctx).Create(b).Error; err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, err
	}
}

// GetBriefing fetches the typed briefing for a project, or ErrNotFound.
func GetBriefing(ctx context.Context, db *gorm.DB, projectID string) (*domain.Briefing, error) {
	var b domain.Briefing
	if err := db.WithContext(ctx).Where("project_id = ?", projectID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateProjectLog appends one audit entry. Rows are never updated.
func CreateProjectLog(ctx context.Context, db *gorm.DB, projectID, userID, action, description string, metadata datatypes.JSON) (*domain.ProjectLog, error) {
	l := &domain.ProjectLog{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		UserID:      userID,
		Action:      action,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

// ListProjectLogs returns a project's audit trail, newest first.
func ListProjectLogs(ctx context.Context, db *gorm.DB, projectID string, offset, limit int) ([]domain.ProjectLog, error) {
	var out []domain.ProjectLog
	err := db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountProjectLogs counts audit entries for one project and action.
func CountProjectLogs(ctx context.Context, db *gorm.DB, projectID, action string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ProjectLog{}).
		Where("project_id = ? AND action = ?", projectID, action).
		Count(&total).Error
	return total, err
}
