// controllers/order.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"startech-backend/models"
	"startech-backend/services"
	"startech-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderController struct {
	DB        *gorm.DB
	Sequencer *services.Sequencer
	Notifier  *services.Notifier
	Activity  ActivityRecorder
}

// OrderItemInput defines a single order line
type OrderItemInput struct {
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Price     *utils.FlexFloat `json:"price"` // overrides the product's final price
}

// CreateOrderInput defines the expected JSON structure for creating an order
type CreateOrderInput struct {
	CustomerID    string           `json:"customerId"`
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone"`
	Items         []OrderItemInput `json:"items"`
	Status        string           `json:"status"`
	Notes         string           `json:"notes"`
	AssignedTo    string           `json:"assignedTo"`
}

// UpdateOrderInput defines the expected JSON structure for updating an order
type UpdateOrderInput struct {
	Status     *string `json:"status"`
	Notes      *string `json:"notes"`
	AssignedTo *string `json:"assignedTo"`
}

type OrderItemResponse struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customerId"`
	CustomerName string              `json:"customerName"`
	Status       string              `json:"status"`
	StatusLabel  string              `json:"statusLabel"`
	Total        float64             `json:"total"`
	Notes        string              `json:"notes"`
	AssignedTo   string              `json:"assignedTo"`
	CreatedBy    string              `json:"createdBy"`
	DeliveredAt  *time.Time          `json:"deliveredAt"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Products     []OrderItemResponse `json:"products"`
}

func toOrderResponse(order models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Products))
	for _, op := range order.Products {
		items = append(items, OrderItemResponse{
			ProductID:   op.ProductID.String(),
			ProductName: op.Product.Name,
			Quantity:    op.Quantity,
			Price:       op.Price,
			Subtotal:    float64(op.Quantity) * op.Price,
		})
	}
	return OrderResponse{
		ID:           order.ID,
		CustomerID:   order.CustomerID.String(),
		CustomerName: order.Customer.Name,
		Status:       order.Status,
		StatusLabel:  models.TranslateStatus(order.Status),
		Total:        order.Total,
		Notes:        order.Notes,
		AssignedTo:   order.AssignedTo,
		CreatedBy:    order.CreatedBy,
		DeliveredAt:  order.DeliveredAt,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
		Products:     items,
	}
}

func (ctl *OrderController) Create(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	if len(input.Items) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Porosia duhet të ketë të paktën një produkt")
		return
	}

	status := input.Status
	if status == "" {
		status = models.DefaultStatus(models.EntityOrder)
	}
	if !models.IsValidStatus(models.EntityOrder, status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Statusi i porosisë është i pavlefshëm: "+status)
		return
	}

	customer, err := findOrCreateCustomer(ctl.DB, input.CustomerID, input.CustomerName, input.CustomerPhone)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var total float64
	var orderProducts []models.OrderProduct
	for _, item := range input.Items {
		productUUID, err := uuid.Parse(item.ProductID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "ID e produktit është e pavlefshme")
			return
		}
		var product models.Product
		if err := ctl.DB.First(&product, "id = ?", productUUID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Produkti nuk u gjet: "+item.ProductID)
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
			}
			return
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		price := product.FinalPrice()
		if item.Price != nil {
			price = float64(*item.Price)
		}
		total += float64(quantity) * price

		orderProducts = append(orderProducts, models.OrderProduct{
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     price,
		})
	}

	orderID, err := ctl.Sequencer.NextID(models.PrefixOrder, utils.CurrentYear())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	userName, _ := utils.Identity(c)
	order := models.Order{
		ID:         orderID,
		CustomerID: customer.ID,
		Status:     status,
		Total:      total,
		Notes:      input.Notes,
		AssignedTo: input.AssignedTo,
		CreatedBy:  userName,
	}
	order.DeliveredAt = models.NextCompletionTime(status, nil)

	tx := ctl.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	for i := range orderProducts {
		orderProducts[i].OrderID = order.ID
	}
	if err := tx.Create(&orderProducts).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	tx.Commit()

	ctl.Activity.Record(userName, "create", "order", order.ID,
		fmt.Sprintf("Porosi e re për %s, totali %.2f", customer.Name, total))

	ctl.loadAndRespond(c, http.StatusCreated, order.ID)
}

func (ctl *OrderController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	query := ctl.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var orders []models.Order
	if err := query.Preload("Customer").Preload("Products.Product").
		Order("created_at DESC").
		Offset(utils.Offset(page, limit)).Limit(limit).
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}

	utils.RespondWithList(c, responses, utils.NewPagination(page, limit, total))
}

func (ctl *OrderController) Get(c *gin.Context) {
	ctl.loadAndRespond(c, http.StatusOK, c.Param("id"))
}

func (ctl *OrderController) Update(c *gin.Context) {
	orderID := c.Param("id")

	var input UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Të dhënat e dërguara janë të pavlefshme")
		return
	}

	var order models.Order
	if err := ctl.DB.Preload("Customer").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Porosia nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	userName, _ := utils.Identity(c)
	statusChanged := false

	if input.Status != nil && *input.Status != order.Status {
		if !models.IsValidStatus(models.EntityOrder, *input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Statusi i porosisë është i pavlefshëm: "+*input.Status)
			return
		}
		order.Status = *input.Status
		order.DeliveredAt = models.NextCompletionTime(order.Status, order.DeliveredAt)
		statusChanged = true
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}
	if input.AssignedTo != nil {
		order.AssignedTo = *input.AssignedTo
	}

	if err := ctl.DB.Save(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if statusChanged {
		ctl.Activity.Record(userName, "status-change", "order", order.ID, "Statusi u bë "+order.Status)
		ctl.Notifier.OrderStatusChanged(order.ID, order.Status, order.Customer.Phone)
	} else {
		ctl.Activity.Record(userName, "update", "order", order.ID, "Porosia u përditësua")
	}

	ctl.loadAndRespond(c, http.StatusOK, order.ID)
}

func (ctl *OrderController) Delete(c *gin.Context) {
	orderID := c.Param("id")

	tx := ctl.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Porosia nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if err := tx.Delete(&models.OrderProduct{}, "order_id = ?", order.ID).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	tx.Commit()

	userName, _ := utils.Identity(c)
	ctl.Activity.Record(userName, "delete", "order", orderID, "Porosia u fshi")

	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Porosia u fshi me sukses"})
}

func (ctl *OrderController) loadAndRespond(c *gin.Context, code int, orderID string) {
	var order models.Order
	if err := ctl.DB.Preload("Customer").Preload("Products.Product").
		First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Porosia nuk u gjet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	utils.RespondWithData(c, code, toOrderResponse(order))
}
