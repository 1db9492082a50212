package dto

import "equipment-portal/internal/entities"

// DashboardStatsDTO is the per-role landing summary. Counts are scoped to
// what the caller may see.
type DashboardStatsDTO struct {
	Role                 string                 `json:"role"`
	DefectsByStatus      map[string]int         `json:"defects_by_status"`
	ClaimableDefects     int                    `json:"claimable_defects"`
	AvgRepairHours       float64                `json:"avg_repair_hours"`
	ReservationsByStatus map[string]int         `json:"reservations_by_status"`
	UpcomingReservations []entities.Reservation `json:"upcoming_reservations"`
	EquipmentByStatus    map[string]int         `json:"equipment_by_status"`
	UnreadNotifications  int                    `json:"unread_notifications"`
}
