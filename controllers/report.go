// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"startech-backend/models"
	"startech-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReportController struct {
	DB *gorm.DB
}

type statusCount struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

type monthlyRevenue struct {
	Month   string  `json:"month"` // "2024-05"
	Orders  float64 `json:"orders"`
	Service float64 `json:"services"`
}

// GetReportAnalytics aggregates revenue and per-status counts.
func (ctl *ReportController) GetReportAnalytics(c *gin.Context) {
	var orderRevenue, serviceRevenue float64
	if err := ctl.DB.Model(&models.Order{}).
		Where("status <> ?", "cancelled").
		Select("COALESCE(SUM(total), 0)").Scan(&orderRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := ctl.DB.Model(&models.Service{}).
		Select("COALESCE(SUM(final_cost), 0)").Scan(&serviceRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	ordersByStatus, err := ctl.countByStatus(&models.Order{})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	servicesByStatus, err := ctl.countByStatus(&models.Service{})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	tasksByStatus, err := ctl.countByStatus(&models.Task{})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	ticketsByStatus, err := ctl.countByStatus(&models.Ticket{})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	months, err := ctl.monthlyRevenue(6)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{
		"revenue": gin.H{
			"orders":   orderRevenue,
			"services": serviceRevenue,
			"total":    orderRevenue + serviceRevenue,
		},
		"ordersByStatus":   ordersByStatus,
		"servicesByStatus": servicesByStatus,
		"tasksByStatus":    tasksByStatus,
		"ticketsByStatus":  ticketsByStatus,
		"monthlyRevenue":   months,
	})
}

func (ctl *ReportController) countByStatus(model interface{}) ([]statusCount, error) {
	var rows []statusCount
	if err := ctl.DB.Model(model).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Label = models.TranslateStatus(rows[i].Status)
	}
	return rows, nil
}

// monthlyRevenue sums order totals and service final costs for the last n
// months. Month boundaries are computed in Go so the query stays portable.
func (ctl *ReportController) monthlyRevenue(n int) ([]monthlyRevenue, error) {
	now := time.Now()
	months := make([]monthlyRevenue, 0, n)

	for i := n - 1; i >= 0; i-- {
		start := utils.BeginningOfMonth(now.AddDate(0, -i, 0))
		end := start.AddDate(0, 1, 0)

		var orders, services float64
		if err := ctl.DB.Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ? AND status <> ?", start, end, "cancelled").
			Select("COALESCE(SUM(total), 0)").Scan(&orders).Error; err != nil {
			return nil, err
		}
		if err := ctl.DB.Model(&models.Service{}).
			Where("created_at >= ? AND created_at < ?", start, end).
			Select("COALESCE(SUM(final_cost), 0)").Scan(&services).Error; err != nil {
			return nil, err
		}

		months = append(months, monthlyRevenue{
			Month:   start.Format("2006-01"),
			Orders:  orders,
			Service: services,
		})
	}
	return months, nil
}
