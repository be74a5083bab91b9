// controllers/user.go
package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"startech-backend/models"
	"startech-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserController struct {
	DB       *gorm.DB
	Activity ActivityRecorder
}

// CreateUserInput defines the expected JSON structure for creating a user
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserInput defines the expected JSON structure for updating a user
type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}

func validRole(role string) bool {
	return role == "admin" || role == "manager" || role == "user"
}

// requireAdmin aborts with 403 unless the requester is an admin.
func requireAdmin(c *gin.Context) bool {
	_, role := utils.Identity(c)
	if role != "admin" {
		utils.RespondWithError(c, http.StatusForbidden, "Nuk keni leje për këtë veprim")
		return false
	}
	return true
}

func (ctl *UserController) Create(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	if strings.TrimSpace(input.Name) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Emri i përdoruesit është i detyrueshëm")
		return
	}
	if strings.TrimSpace(input.Email) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Email-i është i detyrueshëm")
		return
	}
	if len(input.Password) < 8 {
		utils.RespondWithError(c, http.StatusBadRequest, "Fjalëkalimi duhet të ketë të paktën 8 karaktere")
		return
	}

	role := input.Role
	if role == "" {
		role = "user"
	}
	if !validRole(role) {
		utils.RespondWithError(c, http.StatusBadRequest, "Roli është i pavlefshëm: "+role)
		return
	}

	var existing models.User
	err := ctl.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Ky email është i regjistruar tashmë")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password, // hashed in BeforeCreate
		Role:     role,
		IsActive: true,
	}

	if err := ctl.DB.Create(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "create", "user", user.ID.String(), "Përdorues i ri: "+user.Name)

	utils.RespondWithData(c, http.StatusCreated, toUserResponse(user))
}

func (ctl *UserController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	query := ctl.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var users []models.User
	if err := query.Order("created_at ASC").
		Offset(utils.Offset(page, limit)).Limit(limit).
		Find(&users).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}

	utils.RespondWithList(c, responses, utils.NewPagination(page, limit, total))
}

func (ctl *UserController) Get(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID e përdoruesit është e pavlefshme")
		return
	}

	var user models.User
	if err := ctl.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Përdoruesi nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, toUserResponse(user))
}

func (ctl *UserController) Update(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID e përdoruesit është e pavlefshme")
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	var user models.User
	if err := ctl.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Përdoruesi nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != user.Email {
		var existing models.User
		err := ctl.DB.Where("email = ? AND id <> ?", *input.Email, user.ID).First(&existing).Error
		if err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Ky email është i regjistruar tashmë")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			utils.RespondWithError(c, http.StatusBadRequest, "Fjalëkalimi duhet të ketë të paktën 8 karaktere")
			return
		}
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		user.Password = hashed
	}
	if input.Role != nil {
		if !validRole(*input.Role) {
			utils.RespondWithError(c, http.StatusBadRequest, "Roli është i pavlefshëm: "+*input.Role)
			return
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := ctl.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "update", "user", user.ID.String(), "Përdoruesi u përditësua")

	utils.RespondWithData(c, http.StatusOK, toUserResponse(user))
}

func (ctl *UserController) Delete(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID e përdoruesit është e pavlefshme")
		return
	}

	if c.GetString("userId") == userUUID.String() {
		utils.RespondWithError(c, http.StatusBadRequest, "Nuk mund të fshini veten")
		return
	}

	result := ctl.DB.Delete(&models.User{}, "id = ?", userUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Përdoruesi nuk u gjet")
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "delete", "user", userUUID.String(), "Përdoruesi u fshi")

	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Përdoruesi u fshi me sukses"})
}
