// controllers/product.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"startech-backend/models"
	"startech-backend/services"
	"startech-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductController struct {
	DB       *gorm.DB
	Sync     *services.WooSyncService
	Activity ActivityRecorder
}

// CreateProductInput defines the expected JSON structure for creating a product
type CreateProductInput struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	BasePrice      utils.FlexFloat `json:"basePrice"`
	AdditionalCost utils.FlexFloat `json:"additionalCost"`
}

// UpdateProductInput defines the expected JSON structure for updating a product
type UpdateProductInput struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	BasePrice      *utils.FlexFloat `json:"basePrice"`
	AdditionalCost *utils.FlexFloat `json:"additionalCost"`
	IsActive       *bool            `json:"isActive"`
}

type ProductResponse struct {
	ID             string    `json:"id"`
	WooID          *int64    `json:"wooId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	BasePrice      float64   `json:"basePrice"`
	AdditionalCost float64   `json:"additionalCost"`
	FinalPrice     float64   `json:"finalPrice"`
	Source         string    `json:"source"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toProductResponse(product models.Product) ProductResponse {
	return ProductResponse{
		ID:             product.ID.String(),
		WooID:          product.WooID,
		Name:           product.Name,
		Description:    product.Description,
		BasePrice:      product.BasePrice,
		AdditionalCost: product.AdditionalCost,
		FinalPrice:     product.FinalPrice(),
		Source:         product.Source,
		IsActive:       product.IsActive,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}

func (ctl *ProductController) Create(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	if strings.TrimSpace(input.Name) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Emri i produktit është i detyrueshëm")
		return
	}

	product := models.Product{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		BasePrice:      float64(input.BasePrice),
		AdditionalCost: float64(input.AdditionalCost),
		Source:         models.SourceInternal,
		IsActive:       true,
	}

	if err := ctl.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "create", "product", product.ID.String(), "Produkt i ri: "+product.Name)

	utils.RespondWithData(c, http.StatusCreated, toProductResponse(product))
}

func (ctl *ProductController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	query := ctl.DB.Model(&models.Product{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var products []models.Product
	if err := query.Order("created_at DESC").
		Offset(utils.Offset(page, limit)).Limit(limit).
		Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}

	utils.RespondWithList(c, responses, utils.NewPagination(page, limit, total))
}

func (ctl *ProductController) Get(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID e produktit është e pavlefshme")
		return
	}

	var product models.Product
	if err := ctl.DB.First(&product, "id = ?", productUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Produkti nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, toProductResponse(product))
}

func (ctl *ProductController) Update(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID e produktit është e pavlefshme")
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	var product models.Product
	if err := ctl.DB.First(&product, "id = ?", productUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Produkti nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.BasePrice != nil {
		product.BasePrice = float64(*input.BasePrice)
	}
	if input.AdditionalCost != nil {
		product.AdditionalCost = float64(*input.AdditionalCost)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := ctl.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "update", "product", product.ID.String(), "Produkti u përditësua")

	utils.RespondWithData(c, http.StatusOK, toProductResponse(product))
}

func (ctl *ProductController) Delete(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID e produktit është e pavlefshme")
		return
	}

	result := ctl.DB.Delete(&models.Product{}, "id = ?", productUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Produkti nuk u gjet")
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "delete", "product", productUUID.String(), "Produkti u fshi")

	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Produkti u fshi me sukses"})
}

// RefreshFromWooCommerce re-fetches one linked product's price.
func (ctl *ProductController) RefreshFromWooCommerce(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID e produktit është e pavlefshme")
		return
	}

	var product models.Product
	if err := ctl.DB.First(&product, "id = ?", productUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Produkti nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if product.WooID == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Produkti nuk është i lidhur me WooCommerce")
		return
	}

	if err := ctl.Sync.RefreshProduct(&product); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := ctl.DB.First(&product, "id = ?", productUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "refresh", "product", product.ID.String(), "Çmimi u rifreskua nga WooCommerce")

	utils.RespondWithData(c, http.StatusOK, toProductResponse(product))
}

// SyncFromWooCommerce triggers a full catalog sync on demand.
func (ctl *ProductController) SyncFromWooCommerce(c *gin.Context) {
	synced, err := ctl.Sync.SyncProducts()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "sync", "product", "", fmt.Sprintf("%d produkte u sinkronizuan nga WooCommerce", synced))

	utils.RespondWithData(c, http.StatusOK, gin.H{"synced": synced})
}
