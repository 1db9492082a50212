package services

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/entities"
	"equipment-portal/internal/repositories"
	"equipment-portal/pkg/constants"
	"equipment-portal/pkg/types"
)

// upcomingWindow is how far ahead approved reservations count as upcoming.
const upcomingWindow = 7 * 24 * time.Hour

type DashboardServiceInterface interface {
	GetDashboardStats(ctx context.Context, actor entities.Actor) (*dto.DashboardStatsDTO, error)
}

type DashboardService struct {
	BaseService
	reportRepo       repositories.DefectReportRepositoryInterface
	reservationRepo  repositories.ReservationRepositoryInterface
	equipmentRepo    repositories.EquipmentRepositoryInterface
	notificationRepo repositories.NotificationRepositoryInterface
}

func NewDashboardService(
	reportRepo repositories.DefectReportRepositoryInterface,
	reservationRepo repositories.ReservationRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	notificationRepo repositories.NotificationRepositoryInterface,
	clock Clock,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		BaseService:      NewBaseService(clock, nil, logger),
		reportRepo:       reportRepo,
		reservationRepo:  reservationRepo,
		equipmentRepo:    equipmentRepo,
		notificationRepo: notificationRepo,
	}
}

// GetDashboardStats loads every section concurrently. Admins see everything,
// technicians their assignments plus the claimable queue, users their own records.
func (s *DashboardService) GetDashboardStats(ctx context.Context, actor entities.Actor) (*dto.DashboardStatsDTO, error) {
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		errs         []error
		reports      []entities.DefectReport
		claimable    uint64
		reservations []entities.Reservation
		equipment    []entities.Equipment
		unread       uint64
	)

	addTask := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	addTask(func() (err error) {
		reports, _, err = s.reportRepo.GetDefectReports(ctx, s.defectScope(actor))
		return
	})
	if actor.IsAdmin() || actor.IsTechnician() {
		addTask(func() (err error) {
			var queue []entities.DefectReport
			queue, _, err = s.reportRepo.GetDefectReports(ctx, types.Filter{
				Filter: map[string]string{"status": constants.DefectStatusReported},
			})
			for i := range queue {
				if queue[i].AssignedTo == nil {
					claimable++
				}
			}
			return
		})
	}
	addTask(func() (err error) {
		reservations, _, err = s.reservationRepo.GetReservations(ctx, s.reservationScope(actor))
		return
	})
	addTask(func() (err error) {
		equipment, _, err = s.equipmentRepo.GetEquipments(ctx, types.Filter{})
		return
	})
	addTask(func() (err error) {
		_, unread, err = s.notificationRepo.GetNotifications(ctx, &actor.UserID, types.Filter{
			Filter: map[string]string{"is_read": "false"},
		})
		return
	})

	wg.Wait()

	if len(errs) > 0 {
		s.logger.Error("dashboard load failed", zap.Uint64("userID", actor.UserID), zap.Errors("errors", errs))
		return nil, errs[0]
	}

	stats := &dto.DashboardStatsDTO{
		Role:                 actor.Role,
		DefectsByStatus:      make(map[string]int),
		ClaimableDefects:     int(claimable),
		ReservationsByStatus: make(map[string]int),
		UpcomingReservations: []entities.Reservation{},
		EquipmentByStatus:    make(map[string]int),
		UnreadNotifications:  int(unread),
	}

	var repairTotal time.Duration
	var repaired int
	for i := range reports {
		r := &reports[i]
		stats.DefectsByStatus[r.Status]++
		if r.ReportDate != nil && r.CompletionDate != nil && r.CompletionDate.After(*r.ReportDate) {
			repairTotal += r.CompletionDate.Sub(*r.ReportDate)
			repaired++
		}
	}
	if repaired > 0 {
		stats.AvgRepairHours = math.Round(repairTotal.Hours()/float64(repaired)*10) / 10
	}

	now := s.now()
	today := types.NewDate(now.Date())
	horizon := types.NewDate(now.Add(upcomingWindow).Date())
	for _, r := range reservations {
		stats.ReservationsByStatus[r.Status]++
		if r.Status == constants.ReservationStatusApproved && !r.StartDate.Before(today) && !r.StartDate.After(horizon) {
			stats.UpcomingReservations = append(stats.UpcomingReservations, r)
		}
	}
	sort.SliceStable(stats.UpcomingReservations, func(i, j int) bool {
		return stats.UpcomingReservations[i].StartDate.Before(stats.UpcomingReservations[j].StartDate)
	})

	for _, e := range equipment {
		stats.EquipmentByStatus[e.Status]++
	}

	return stats, nil
}

func (s *DashboardService) defectScope(actor entities.Actor) types.Filter {
	id := strconv.FormatUint(actor.UserID, 10)
	switch {
	case actor.IsAdmin():
		return types.Filter{}
	case actor.IsTechnician():
		return types.Filter{Filter: map[string]string{"assigned_to": id}}
	default:
		return types.Filter{Filter: map[string]string{"reporter_id": id}}
	}
}

func (s *DashboardService) reservationScope(actor entities.Actor) types.Filter {
	if actor.IsAdmin() {
		return types.Filter{}
	}
	return types.Filter{Filter: map[string]string{"user_id": strconv.FormatUint(actor.UserID, 10)}}
}
