package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/zreport/backend/internal/domain/shared"
	"github.com/zreport/backend/internal/domain/zreport"
	"github.com/zreport/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReportRepository implements zreport.ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("VatLines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("TerminalLines", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

// FindByID finds a report by its ID
func (r *GormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*zreport.Report, error) {
	var model models.ZReportModel
	if err := withLines(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIdentity finds the report for a (date, till, shift) key
func (r *GormReportRepository) FindByIdentity(ctx context.Context, identity zreport.Identity) (*zreport.Report, error) {
	return findByIdentity(withLines(r.db.WithContext(ctx)), identity)
}

func findByIdentity(db *gorm.DB, identity zreport.Identity) (*zreport.Report, error) {
	var model models.ZReportModel
	err := db.
		Where("date = ? AND till_id = ? AND shift = ?",
			zreport.Day(identity.Date), identity.TillID, zreport.NormalizeShift(identity.Shift)).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns the reports dated within the filter's range, newest first
func (r *GormReportRepository) FindAll(ctx context.Context, filter zreport.ReportFilter) ([]*zreport.Report, error) {
	query := withLines(r.db.WithContext(ctx).Model(&models.ZReportModel{})).
		Where("date >= ? AND date <= ?", zreport.Day(filter.From), zreport.Day(filter.To))
	if filter.TillID != nil {
		query = query.Where("till_id = ?", *filter.TillID)
	}
	query = query.Order("date DESC").Order("shift ASC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.ZReportModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	reports := make([]*zreport.Report, len(rows))
	for i := range rows {
		reports[i] = rows[i].ToDomain()
	}
	return reports, nil
}

// Save writes the report and replaces both of its line sets
func (r *GormReportRepository) Save(ctx context.Context, report *zreport.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveReport(tx, report)
	})
}

// UpsertByIdentity loads, applies and saves inside one transaction.
// The row is read FOR UPDATE where the dialect supports it.
func (r *GormReportRepository) UpsertByIdentity(ctx context.Context, identity zreport.Identity, apply zreport.ApplyFunc) (*zreport.Report, error) {
	var result *zreport.Report
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findByIdentity(withLines(tx.Clauses(clause.Locking{Strength: "UPDATE"})), identity)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		report, err := apply(existing)
		if err != nil {
			return err
		}
		if err := saveReport(tx, report); err != nil {
			return err
		}
		result = report
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func saveReport(tx *gorm.DB, report *zreport.Report) error {
	model := models.ZReportModelFromDomain(report)
	if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
		return translateError(err)
	}

	if err := tx.Where("report_id = ?", report.ID).Delete(&models.ZReportVatLineModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("report_id = ?", report.ID).Delete(&models.ZReportTerminalLineModel{}).Error; err != nil {
		return err
	}
	if len(model.VatLines) > 0 {
		if err := tx.Create(&model.VatLines).Error; err != nil {
			return translateError(err)
		}
	}
	if len(model.TerminalLines) > 0 {
		if err := tx.Create(&model.TerminalLines).Error; err != nil {
			return translateError(err)
		}
	}
	return nil
}

// EntryDates returns the distinct report dates in [from, to], ascending
func (r *GormReportRepository) EntryDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var rows []models.ZReportModel
	err := r.db.WithContext(ctx).
		Select("date").
		Where("date >= ? AND date <= ?", zreport.Day(from), zreport.Day(to)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		d := zreport.Day(row.Date)
		if n := len(dates); n > 0 && dates[n-1].Equal(d) {
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// Ensure interface compliance
var _ zreport.ReportRepository = (*GormReportRepository)(nil)
