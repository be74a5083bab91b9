// controllers/ticket.go
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

type TicketController struct {
	DB        *gorm.DB
	Sequencer *services.Sequencer
	Activity  ActivityRecorder
}

// CreateTicketInput defines the expected JSON structure for creating a ticket
type CreateTicketInput struct {
	Subject       string `json:"subject"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	AssignedTo    string `json:"assignedTo"`
}

// UpdateTicketInput defines the expected JSON structure for updating a ticket
type UpdateTicketInput struct {
	Subject       *string `json:"subject"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
	Priority      *string `json:"priority"`
	CustomerName  *string `json:"customerName"`
	CustomerPhone *string `json:"customerPhone"`
	AssignedTo    *string `json:"assignedTo"`
}

type TicketResponse struct {
	ID            string            `json:"id"`
	Subject       string            `json:"subject"`
	Description   string            `json:"description"`
	Status        string            `json:"status"`
	StatusLabel   string            `json:"statusLabel"`
	Priority      string            `json:"priority"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	AssignedTo    string            `json:"assignedTo"`
	CreatedBy     string            `json:"createdBy"`
	ResolvedAt    *time.Time        `json:"resolvedAt"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Comments      []CommentResponse `json:"comments"`
}

func toTicketResponse(ticket models.Ticket) TicketResponse {
	comments := make([]CommentResponse, 0, len(ticket.Comments))
	for _, comment := range ticket.Comments {
		comments = append(comments, CommentResponse(comment))
	}
	return TicketResponse{
		ID:            ticket.ID,
		Subject:       ticket.Subject,
		Description:   ticket.Description,
		Status:        ticket.Status,
		StatusLabel:   models.TranslateStatus(ticket.Status),
		Priority:      ticket.Priority,
		CustomerName:  ticket.CustomerName,
		CustomerPhone: ticket.CustomerPhone,
		AssignedTo:    ticket.AssignedTo,
		CreatedBy:     ticket.CreatedBy,
		ResolvedAt:    ticket.ResolvedAt,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
		Comments:      comments,
	}
}

func (ctl *TicketController) Create(c *gin.Context) {
	var input CreateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	if strings.TrimSpace(input.Subject) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Subjekti i tiketës është i detyrueshëm")
		return
	}

	priority := input.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}
	if !models.IsValidPriority(priority) {
		utils.RespondWithError(c, http.StatusBadRequest, "Prioriteti është i pavlefshëm: "+priority)
		return
	}

	ticketID, err := ctl.Sequencer.NextID(models.PrefixTicket, utils.CurrentYear())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	ticket := models.Ticket{
		ID:            ticketID,
		Subject:       strings.TrimSpace(input.Subject),
		Description:   input.Description,
		Status:        models.DefaultStatus(models.EntityTicket),
		Priority:      priority,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		AssignedTo:    input.AssignedTo,
		CreatedBy:     userName,
		Comments:      models.CommentList{},
	}

	if err := ctl.DB.Create(&ticket).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	ctl.Activity.Record(userName, "create", "ticket", ticket.ID, "Tiketë e re: "+ticket.Subject)

	utils.RespondWithData(c, http.StatusCreated, toTicketResponse(ticket))
}

func (ctl *TicketController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	query := ctl.DB.Model(&models.Ticket{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if assignedTo := c.Query("assignedTo"); assignedTo != "" {
		query = query.Where("assigned_to = ?", assignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var tickets []models.Ticket
	if err := query.Order("created_at DESC").
		Offset(utils.Offset(page, limit)).Limit(limit).
		Find(&tickets).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		responses = append(responses, toTicketResponse(ticket))
	}

	utils.RespondWithList(c, responses, utils.NewPagination(page, limit, total))
}

func (ctl *TicketController) Get(c *gin.Context) {
	ticket, ok := ctl.load(c)
	if !ok {
		return
	}
	utils.RespondWithData(c, http.StatusOK, toTicketResponse(*ticket))
}

func (ctl *TicketController) Update(c *gin.Context) {
	ticket, ok := ctl.load(c)
	if !ok {
		return
	}

	var input UpdateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	userName, _ := utils.Identity(c)
	oldStatus := ticket.Status

	if input.Subject != nil {
		ticket.Subject = *input.Subject
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Priority != nil {
		if !models.IsValidPriority(*input.Priority) {
			utils.RespondWithError(c, http.StatusBadRequest, "Prioriteti është i pavlefshëm: "+*input.Priority)
			return
		}
		ticket.Priority = *input.Priority
	}
	if input.CustomerName != nil {
		ticket.CustomerName = *input.CustomerName
	}
	if input.CustomerPhone != nil {
		ticket.CustomerPhone = *input.CustomerPhone
	}
	if input.AssignedTo != nil {
		ticket.AssignedTo = *input.AssignedTo
	}
	if input.Status != nil && *input.Status != ticket.Status {
		if !models.IsValidStatus(models.EntityTicket, *input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Statusi i tiketës është i pavlefshëm: "+*input.Status)
			return
		}
		ticket.Status = *input.Status
		ticket.ResolvedAt = models.NextCompletionTime(ticket.Status, ticket.ResolvedAt)
	}

	if err := ctl.DB.Save(ticket).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if ticket.Status != oldStatus {
		if err := ctl.DB.Create(&models.TicketHistory{
			TicketID:  ticket.ID,
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			ChangedBy: userName,
			CreatedAt: time.Now(),
		}).Error; err != nil {
			slog.Warn("ticket history write failed", "ticket", ticket.ID, "error", err)
		}
		ctl.Activity.Record(userName, "status-change", "ticket", ticket.ID, "Statusi u bë "+ticket.Status)
	} else {
		ctl.Activity.Record(userName, "update", "ticket", ticket.ID, "Tiketa u përditësua")
	}

	utils.RespondWithData(c, http.StatusOK, toTicketResponse(*ticket))
}

func (ctl *TicketController) Delete(c *gin.Context) {
	ticket, ok := ctl.load(c)
	if !ok {
		return
	}

	tx := ctl.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&models.TicketHistory{}, "ticket_id = ?", ticket.ID).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := tx.Delete(ticket).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	tx.Commit()

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "delete", "ticket", ticket.ID, "Tiketa u fshi")

	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Tiketa u fshi me sukses"})
}

// AddComment appends to the JSON-encoded comments column.
func (ctl *TicketController) AddComment(c *gin.Context) {
	ticket, ok := ctl.load(c)
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Text) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Teksti i komentit është i detyrueshëm")
		return
	}

	userName, _ := utils.Identity(c)
	ticket.Comments = append(ticket.Comments, models.EmbeddedComment{
		Author:    userName,
		Text:      strings.TrimSpace(input.Text),
		CreatedAt: time.Now(),
	})

	if err := ctl.DB.Save(ticket).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	ctl.Activity.Record(userName, "comment", "ticket", ticket.ID, "Koment i ri")

	utils.RespondWithData(c, http.StatusCreated, toTicketResponse(*ticket))
}

func (ctl *TicketController) load(c *gin.Context) (*models.Ticket, bool) {
	var ticket models.Ticket
	if err := ctl.DB.First(&ticket, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Tiketa nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return &ticket, true
}
