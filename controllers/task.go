// controllers/task.go
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

type TaskController struct {
	DB        *gorm.DB
	Sequencer *services.Sequencer
	Activity  ActivityRecorder
}

// CreateTaskInput defines the expected JSON structure for creating a task
type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskInput defines the expected JSON structure for updating a task
type UpdateTaskInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssignedTo  *string    `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
}

type TaskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	StatusLabel string            `json:"statusLabel"`
	Priority    string            `json:"priority"`
	AssignedTo  string            `json:"assignedTo"`
	CreatedBy   string            `json:"createdBy"`
	DueDate     *time.Time        `json:"dueDate"`
	CompletedAt *time.Time        `json:"completedAt"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Comments    []CommentResponse `json:"comments"`
}

func toTaskResponse(task models.Task) TaskResponse {
	comments := make([]CommentResponse, 0, len(task.Comments))
	for _, comment := range task.Comments {
		comments = append(comments, CommentResponse(comment))
	}
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		StatusLabel: models.TranslateStatus(task.Status),
		Priority:    task.Priority,
		AssignedTo:  task.AssignedTo,
		CreatedBy:   task.CreatedBy,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Comments:    comments,
	}
}

func (ctl *TaskController) Create(c *gin.Context) {
	var input CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	if strings.TrimSpace(input.Title) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Titulli i detyrës është i detyrueshëm")
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

	taskID, err := ctl.Sequencer.NextID(models.PrefixTask, utils.CurrentYear())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	task := models.Task{
		ID:          taskID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      models.DefaultStatus(models.EntityTask),
		Priority:    priority,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   userName,
		DueDate:     input.DueDate,
		Comments:    models.CommentList{},
	}

	if err := ctl.DB.Create(&task).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	ctl.Activity.Record(userName, "create", "task", task.ID, "Detyrë e re: "+task.Title)

	utils.RespondWithData(c, http.StatusCreated, toTaskResponse(task))
}

// List returns tasks. Non-admin, non-manager users only see tasks assigned to
// them or created by them.
func (ctl *TaskController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)
	userName, role := utils.Identity(c)

	query := ctl.DB.Model(&models.Task{})
	if !utils.IsPrivileged(role) {
		query = query.Where("assigned_to = ? OR created_by = ?", userName, userName)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").
		Offset(utils.Offset(page, limit)).Limit(limit).
		Find(&tasks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, toTaskResponse(task))
	}

	utils.RespondWithList(c, responses, utils.NewPagination(page, limit, total))
}

func (ctl *TaskController) Get(c *gin.Context) {
	task, ok := ctl.loadVisible(c)
	if !ok {
		return
	}
	utils.RespondWithData(c, http.StatusOK, toTaskResponse(*task))
}

func (ctl *TaskController) Update(c *gin.Context) {
	task, ok := ctl.loadVisible(c)
	if !ok {
		return
	}

	var input UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	userName, _ := utils.Identity(c)
	oldStatus := task.Status

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !models.IsValidPriority(*input.Priority) {
			utils.RespondWithError(c, http.StatusBadRequest, "Prioriteti është i pavlefshëm: "+*input.Priority)
			return
		}
		task.Priority = *input.Priority
	}
	if input.AssignedTo != nil {
		task.AssignedTo = *input.AssignedTo
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Status != nil && *input.Status != task.Status {
		if !models.IsValidStatus(models.EntityTask, *input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Statusi i detyrës është i pavlefshëm: "+*input.Status)
			return
		}
		task.Status = *input.Status
		task.CompletedAt = models.NextCompletionTime(task.Status, task.CompletedAt)
	}

	if err := ctl.DB.Save(task).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if task.Status != oldStatus {
		if err := ctl.DB.Create(&models.TaskHistory{
			TaskID:    task.ID,
			OldStatus: oldStatus,
			NewStatus: task.Status,
			ChangedBy: userName,
			CreatedAt: time.Now(),
		}).Error; err != nil {
			slog.Warn("task history write failed", "task", task.ID, "error", err)
		}
		ctl.Activity.Record(userName, "status-change", "task", task.ID, "Statusi u bë "+task.Status)
	} else {
		ctl.Activity.Record(userName, "update", "task", task.ID, "Detyra u përditësua")
	}

	utils.RespondWithData(c, http.StatusOK, toTaskResponse(*task))
}

func (ctl *TaskController) Delete(c *gin.Context) {
	task, ok := ctl.loadVisible(c)
	if !ok {
		return
	}

	tx := ctl.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&models.TaskHistory{}, "task_id = ?", task.ID).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := tx.Delete(task).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	tx.Commit()

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "delete", "task", task.ID, "Detyra u fshi")

	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Detyra u fshi me sukses"})
}

// AddComment appends to the JSON-encoded comments column.
func (ctl *TaskController) AddComment(c *gin.Context) {
	task, ok := ctl.loadVisible(c)
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Text) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Teksti i komentit është i detyrueshëm")
		return
	}

	userName, _ := utils.Identity(c)
	task.Comments = append(task.Comments, models.EmbeddedComment{
		Author:    userName,
		Text:      strings.TrimSpace(input.Text),
		CreatedAt: time.Now(),
	})

	if err := ctl.DB.Save(task).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	ctl.Activity.Record(userName, "comment", "task", task.ID, "Koment i ri")

	utils.RespondWithData(c, http.StatusCreated, toTaskResponse(*task))
}

// loadVisible fetches the task and enforces the same visibility rule as List.
func (ctl *TaskController) loadVisible(c *gin.Context) (*models.Task, bool) {
	var task models.Task
	if err := ctl.DB.First(&task, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Detyra nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}

	userName, role := utils.Identity(c)
	if !utils.IsPrivileged(role) && task.AssignedTo != userName && task.CreatedBy != userName {
		utils.RespondWithError(c, http.StatusForbidden, "Nuk keni leje për këtë detyrë")
		return nil, false
	}
	return &task, true
}
