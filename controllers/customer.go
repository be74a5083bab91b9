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

type CustomerController struct {
	DB       *gorm.DB
	Activity ActivityRecorder
}

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Source  string `json:"source"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Source  *string `json:"source"`
}

type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCustomerResponse(customer models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID.String(),
		Name:      customer.Name,
		Phone:     customer.Phone,
		Email:     customer.Email,
		Address:   customer.Address,
		Source:    customer.Source,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

// findOrCreateCustomer resolves a customer by id, or by exact name (creating
// it with source Internal on first reference). Shared by orders and services.
func findOrCreateCustomer(db *gorm.DB, id, name, phone string) (*models.Customer, error) {
	var customer models.Customer

	if id != "" {
		customerUUID, err := uuid.Parse(id)
		if err != nil {
			return nil, errors.New("ID e klientit është e pavlefshme")
		}
		if err := db.First(&customer, "id = ?", customerUUID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("Klienti nuk u gjet")
			}
			return nil, err
		}
		return &customer, nil
	}

	if strings.TrimSpace(name) == "" {
		return nil, errors.New("Emri i klientit është i detyrueshëm")
	}

	err := db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		Name:   strings.TrimSpace(name),
		Phone:  phone,
		Source: models.SourceInternal,
	}
	if err := db.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (ctl *CustomerController) Create(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	if strings.TrimSpace(input.Name) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Emri i klientit është i detyrueshëm")
		return
	}

	customer := models.Customer{
		Name:    strings.TrimSpace(input.Name),
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
		Source:  input.Source,
	}

	if err := ctl.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "create", "customer", customer.ID.String(), "Klient i ri: "+customer.Name)

	utils.RespondWithData(c, http.StatusCreated, toCustomerResponse(customer))
}

func (ctl *CustomerController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	query := ctl.DB.Model(&models.Customer{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", needle, "%"+search+"%")
	}
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var customers []models.Customer
	if err := query.Order("created_at DESC").
		Offset(utils.Offset(page, limit)).Limit(limit).
		Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		responses = append(responses, toCustomerResponse(customer))
	}

	utils.RespondWithList(c, responses, utils.NewPagination(page, limit, total))
}

func (ctl *CustomerController) Get(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID e klientit është e pavlefshme")
		return
	}

	var customer models.Customer
	if err := ctl.DB.First(&customer, "id = ?", customerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Klienti nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, toCustomerResponse(customer))
}

func (ctl *CustomerController) Update(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID e klientit është e pavlefshme")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	var customer models.Customer
	if err := ctl.DB.First(&customer, "id = ?", customerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Klienti nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Emri i klientit është i detyrueshëm")
			return
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.Source != nil {
		customer.Source = *input.Source
	}

	if err := ctl.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "update", "customer", customer.ID.String(), "Klienti u përditësua")

	utils.RespondWithData(c, http.StatusOK, toCustomerResponse(customer))
}

func (ctl *CustomerController) Delete(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID e klientit është e pavlefshme")
		return
	}

	result := ctl.DB.Delete(&models.Customer{}, "id = ?", customerUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Klienti nuk u gjet")
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "delete", "customer", customerUUID.String(), "Klienti u fshi")

	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Klienti u fshi me sukses"})
}
