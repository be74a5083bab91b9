// controllers/activity.go
package controllers

import (
	"net/http"
	"time"

	"startech-backend/models"
	"startech-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ActivityController struct {
	DB *gorm.DB
}

type ActivityResponse struct {
	ID         string    `json:"id"`
	UserName   string    `json:"userName"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (ctl *ActivityController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	query := ctl.DB.Model(&models.ActivityLog{})
	if entityType := c.Query("entityType"); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if userName := c.Query("user"); userName != "" {
		query = query.Where("user_name = ?", userName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var logs []models.ActivityLog
	if err := query.Order("created_at DESC").
		Offset(utils.Offset(page, limit)).Limit(limit).
		Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]ActivityResponse, 0, len(logs))
	for _, entry := range logs {
		responses = append(responses, ActivityResponse{
			ID:         entry.ID.String(),
			UserName:   entry.UserName,
			Action:     entry.Action,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Details:    entry.Details,
			CreatedAt:  entry.CreatedAt,
		})
	}

	utils.RespondWithList(c, responses, utils.NewPagination(page, limit, total))
}
