package repositories

import (
	"context"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/constants"
	"equipment-portal/pkg/types"
)

type DefectReportRepositoryInterface interface {
	CreateDefectReport(ctx context.Context, report *entities.DefectReport) (string, error)
	FindDefectReport(ctx context.Context, id string) (*entities.DefectReport, error)
	GetDefectReports(ctx context.Context, filter types.Filter) ([]entities.DefectReport, uint64, error)
	// TransitionDefectReport runs fn on the current report inside the
	// collection lock and persists the report fn leaves behind. If fn returns
	// an error nothing is written.
	TransitionDefectReport(ctx context.Context, id string, fn func(report *entities.DefectReport) error) (*entities.DefectReport, error)
}

type DefectReportRepository struct {
	storage *store.Store
}

func NewDefectReportRepository(storage *store.Store) DefectReportRepositoryInterface {
	return &DefectReportRepository{storage: storage}
}

func (r *DefectReportRepository) CreateDefectReport(ctx context.Context, report *entities.DefectReport) (string, error) {
	rec, err := toRecord(constants.CollectionDefectReports, report)
	if err != nil {
		return "", err
	}
	delete(rec, store.FieldID)
	return r.storage.Insert(ctx, constants.CollectionDefectReports, rec)
}

func (r *DefectReportRepository) FindDefectReport(ctx context.Context, id string) (*entities.DefectReport, error) {
	rec, err := r.storage.Get(ctx, constants.CollectionDefectReports, id)
	if err != nil {
		return nil, err
	}
	return fromRecord[entities.DefectReport](constants.CollectionDefectReports, rec)
}

// GetDefectReports supports filter[status], filter[assigned_to],
// filter[reporter_id] and filter[equipment_id]; each accepts a comma list.
func (r *DefectReportRepository) GetDefectReports(ctx context.Context, filter types.Filter) ([]entities.DefectReport, uint64, error) {
	recs, err := r.storage.List(ctx, constants.CollectionDefectReports)
	if err != nil {
		return nil, 0, err
	}
	all, err := fromRecords[entities.DefectReport](constants.CollectionDefectReports, recs)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]entities.DefectReport, 0, len(all))
	for i := range all {
		report := &all[i]
		if v, ok := filter.Value("status"); ok && !matchesAny(report.Status, v) {
			continue
		}
		if v, ok := filter.Value("equipment_id"); ok && !matchesAny(report.EquipmentID, v) {
			continue
		}
		if v, ok := filter.Value("assigned_to"); ok && !matchesUserID(report.AssignedTo, v) {
			continue
		}
		if v, ok := filter.Value("reporter_id"); ok && !matchesUserID(&report.ReporterID, v) {
			continue
		}
		matched = append(matched, *report)
	}
	return types.Paginate(matched, filter), uint64(len(matched)), nil
}

func (r *DefectReportRepository) TransitionDefectReport(ctx context.Context, id string, fn func(report *entities.DefectReport) error) (*entities.DefectReport, error) {
	rec, err := r.storage.Mutate(ctx, constants.CollectionDefectReports, id, func(current store.Record) (store.Record, error) {
		report, err := fromRecord[entities.DefectReport](constants.CollectionDefectReports, current)
		if err != nil {
			return nil, err
		}
		if err := fn(report); err != nil {
			return nil, err
		}
		return toRecord(constants.CollectionDefectReports, report)
	})
	if err != nil {
		return nil, err
	}
	return fromRecord[entities.DefectReport](constants.CollectionDefectReports, rec)
}
