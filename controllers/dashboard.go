// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"startech-backend/models"
	"startech-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

// GetOverview returns the landing-page numbers.
func (ctl *DashboardController) GetOverview(c *gin.Context) {
	var totalCustomers, openOrders, openServices, openTasks, openTickets int64

	if err := ctl.DB.Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := ctl.DB.Model(&models.Order{}).
		Where("status IN ?", []string{"pending", "accepted", "processing", "shipped"}).
		Count(&openOrders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := ctl.DB.Model(&models.Service{}).
		Where("status IN ?", []string{"received", "in-progress", "waiting-parts"}).
		Count(&openServices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := ctl.DB.Model(&models.Task{}).
		Where("status <> ?", "done").
		Count(&openTasks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := ctl.DB.Model(&models.Ticket{}).
		Where("status NOT IN ?", []string{"resolved", "closed"}).
		Count(&openTickets).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	today := utils.BeginningOfDay(time.Now())
	var todayRevenue float64
	if err := ctl.DB.Model(&models.Order{}).
		Where("created_at >= ? AND status <> ?", today, "cancelled").
		Select("COALESCE(SUM(total), 0)").Scan(&todayRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	firstOfMonth := utils.BeginningOfMonth(time.Now())
	var monthRevenue float64
	if err := ctl.DB.Model(&models.Order{}).
		Where("created_at >= ? AND status <> ?", firstOfMonth, "cancelled").
		Select("COALESCE(SUM(total), 0)").Scan(&monthRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var recent []models.ActivityLog
	if err := ctl.DB.Order("created_at DESC").Limit(10).Find(&recent).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	recentActivity := make([]ActivityResponse, 0, len(recent))
	for _, entry := range recent {
		recentActivity = append(recentActivity, ActivityResponse{
			ID:         entry.ID.String(),
			UserName:   entry.UserName,
			Action:     entry.Action,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Details:    entry.Details,
			CreatedAt:  entry.CreatedAt,
		})
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{
		"totalCustomers": totalCustomers,
		"openOrders":     openOrders,
		"openServices":   openServices,
		"openTasks":      openTasks,
		"openTickets":    openTickets,
		"todayRevenue":   todayRevenue,
		"monthRevenue":   monthRevenue,
		"recentActivity": recentActivity,
	})
}
