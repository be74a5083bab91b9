// controllers/service.go
package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"startech-backend/models"
	"startech-backend/services"
	"startech-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ServiceController struct {
	DB        *gorm.DB
	Sequencer *services.Sequencer
	Activity  ActivityRecorder
}

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	CustomerID         string          `json:"customerId"`
	CustomerName       string          `json:"customerName"`
	CustomerPhone      string          `json:"customerPhone"`
	DeviceType         string          `json:"deviceType"`
	DeviceBrand        string          `json:"deviceBrand"`
	ProblemDescription string          `json:"problemDescription"`
	EstimatedCost      utils.FlexFloat `json:"estimatedCost"`
	AssignedTo         string          `json:"assignedTo"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	DeviceType         *string          `json:"deviceType"`
	DeviceBrand        *string          `json:"deviceBrand"`
	ProblemDescription *string          `json:"problemDescription"`
	EstimatedCost      *utils.FlexFloat `json:"estimatedCost"`
	FinalCost          *utils.FlexFloat `json:"finalCost"`
	Status             *string          `json:"status"`
	AssignedTo         *string          `json:"assignedTo"`
}

type CommentInput struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type ServiceResponse struct {
	ID                 string            `json:"id"`
	CustomerID         string            `json:"customerId"`
	CustomerName       string            `json:"customerName"`
	DeviceType         string            `json:"deviceType"`
	DeviceBrand        string            `json:"deviceBrand"`
	ProblemDescription string            `json:"problemDescription"`
	EstimatedCost      float64           `json:"estimatedCost"`
	FinalCost          float64           `json:"finalCost"`
	Status             string            `json:"status"`
	StatusLabel        string            `json:"statusLabel"`
	AssignedTo         string            `json:"assignedTo"`
	CreatedBy          string            `json:"createdBy"`
	CompletedAt        *time.Time        `json:"completedAt"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
	Comments           []CommentResponse `json:"comments"`
}

func toServiceResponse(service models.Service) ServiceResponse {
	comments := make([]CommentResponse, 0, len(service.Comments))
	for _, comment := range service.Comments {
		comments = append(comments, CommentResponse{
			Author:    comment.Author,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		})
	}
	return ServiceResponse{
		ID:                 service.ID,
		CustomerID:         service.CustomerID.String(),
		CustomerName:       service.Customer.Name,
		DeviceType:         service.DeviceType,
		DeviceBrand:        service.DeviceBrand,
		ProblemDescription: service.ProblemDescription,
		EstimatedCost:      service.EstimatedCost,
		FinalCost:          service.FinalCost,
		Status:             service.Status,
		StatusLabel:        models.TranslateStatus(service.Status),
		AssignedTo:         service.AssignedTo,
		CreatedBy:          service.CreatedBy,
		CompletedAt:        service.CompletedAt,
		CreatedAt:          service.CreatedAt,
		UpdatedAt:          service.UpdatedAt,
		Comments:           comments,
	}
}

func (ctl *ServiceController) Create(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	if strings.TrimSpace(input.DeviceType) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Lloji i pajisjes është i detyrueshëm")
		return
	}
	if strings.TrimSpace(input.ProblemDescription) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Përshkrimi i problemit është i detyrueshëm")
		return
	}

	customer, err := findOrCreateCustomer(ctl.DB, input.CustomerID, input.CustomerName, input.CustomerPhone)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	serviceID, err := ctl.Sequencer.NextID(models.PrefixService, utils.CurrentYear())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	service := models.Service{
		ID:                 serviceID,
		CustomerID:         customer.ID,
		DeviceType:         input.DeviceType,
		DeviceBrand:        input.DeviceBrand,
		ProblemDescription: input.ProblemDescription,
		EstimatedCost:      float64(input.EstimatedCost),
		Status:             models.DefaultStatus(models.EntityService),
		AssignedTo:         input.AssignedTo,
		CreatedBy:          userName,
	}

	if err := ctl.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	ctl.Activity.Record(userName, "create", "service", service.ID, "Servis i ri: "+service.DeviceType)

	ctl.loadAndRespond(c, http.StatusCreated, service.ID)
}

func (ctl *ServiceController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	query := ctl.DB.Model(&models.Service{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if assignedTo := c.Query("assignedTo"); assignedTo != "" {
		query = query.Where("assigned_to = ?", assignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var records []models.Service
	if err := query.Preload("Customer").Preload("Comments").
		Order("created_at DESC").
		Offset(utils.Offset(page, limit)).Limit(limit).
		Find(&records).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]ServiceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toServiceResponse(record))
	}

	utils.RespondWithList(c, responses, utils.NewPagination(page, limit, total))
}

func (ctl *ServiceController) Get(c *gin.Context) {
	ctl.loadAndRespond(c, http.StatusOK, c.Param("id"))
}

func (ctl *ServiceController) Update(c *gin.Context) {
	serviceID := c.Param("id")

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	var service models.Service
	if err := ctl.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Servisi nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	userName, _ := utils.Identity(c)
	oldStatus := service.Status

	if input.DeviceType != nil {
		service.DeviceType = *input.DeviceType
	}
	if input.DeviceBrand != nil {
		service.DeviceBrand = *input.DeviceBrand
	}
	if input.ProblemDescription != nil {
		service.ProblemDescription = *input.ProblemDescription
	}
	if input.EstimatedCost != nil {
		service.EstimatedCost = float64(*input.EstimatedCost)
	}
	if input.FinalCost != nil {
		service.FinalCost = float64(*input.FinalCost)
	}
	if input.AssignedTo != nil {
		service.AssignedTo = *input.AssignedTo
	}
	if input.Status != nil && *input.Status != service.Status {
		if !models.IsValidStatus(models.EntityService, *input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Statusi i servisit është i pavlefshëm: "+*input.Status)
			return
		}
		service.Status = *input.Status
		service.CompletedAt = models.NextCompletionTime(service.Status, service.CompletedAt)
	}

	if err := ctl.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if service.Status != oldStatus {
		if err := ctl.DB.Create(&models.ServiceHistory{
			ServiceID: service.ID,
			OldStatus: oldStatus,
			NewStatus: service.Status,
			ChangedBy: userName,
			CreatedAt: time.Now(),
		}).Error; err != nil {
			slog.Warn("service history write failed", "service", service.ID, "error", err)
		}
		ctl.Activity.Record(userName, "status-change", "service", service.ID, "Statusi u bë "+service.Status)
	} else {
		ctl.Activity.Record(userName, "update", "service", service.ID, "Servisi u përditësua")
	}

	ctl.loadAndRespond(c, http.StatusOK, service.ID)
}

func (ctl *ServiceController) Delete(c *gin.Context) {
	serviceID := c.Param("id")

	tx := ctl.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var service models.Service
	if err := tx.First(&service, "id = ?", serviceID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Servisi nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if err := tx.Delete(&models.Comment{}, "service_id = ?", service.ID).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := tx.Delete(&models.ServiceHistory{}, "service_id = ?", service.ID).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := tx.Delete(&service).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	tx.Commit()

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "delete", "service", serviceID, "Servisi u fshi")

	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Servisi u fshi me sukses"})
}

// AddComment stores a service comment as its own row.
func (ctl *ServiceController) AddComment(c *gin.Context) {
	serviceID := c.Param("id")

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Text) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Teksti i komentit është i detyrueshëm")
		return
	}

	var service models.Service
	if err := ctl.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Servisi nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	userName, _ := utils.Identity(c)
	comment := models.Comment{
		ServiceID: service.ID,
		Author:    userName,
		Text:      strings.TrimSpace(input.Text),
		CreatedAt: time.Now(),
	}
	if err := ctl.DB.Create(&comment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	ctl.Activity.Record(userName, "comment", "service", service.ID, "Koment i ri")

	ctl.loadAndRespond(c, http.StatusCreated, service.ID)
}

func (ctl *ServiceController) loadAndRespond(c *gin.Context, code int, serviceID string) {
	var service models.Service
	if err := ctl.DB.Preload("Customer").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&service, "id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Servisi nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	utils.RespondWithData(c, code, toServiceResponse(service))
}
