package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hazirlageldim/pickup-app/models"
	"github.com/hazirlageldim/pickup-app/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// ListOrders -> filtered list dengan items + business.
// Contoh: ?customer_id=eq.X&order=created_at.desc
func (oc *OrderController) ListOrders(c *gin.Context) {
	var orders []models.Order
	q := oc.DB.Model(&models.Order{}).Preload("Items").Preload("Business")
	q = applyListOptions(applyQueryFilters(q, c), c)
	if err := q.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	var order models.Order
	q := oc.DB.Preload("Items").Preload("Business")
	if err := q.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

type orderItemBody struct {
	ProductID   string  `json:"product_id" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ProductName string  `json:"product_name"`
}

type orderBody struct {
	CustomerID   string          `json:"customer_id"`
	BusinessID   string          `json:"business_id" binding:"required"`
	TotalAmount  float64         `json:"total_amount" binding:"required,gt=0"`
	Notes        string          `json:"notes"`
	PickupTime   *time.Time      `json:"pickup_time"`
	CustomerName string          `json:"customer_name"`
	Items        []orderItemBody `json:"items" binding:"omitempty,dive"`
}

// CreateOrder menerima dua bentuk: tanpa items (klien menyusulkan lewat
// /order_items) atau dengan items inline. Bentuk inline berjalan dalam satu
// transaksi dan totalnya diverifikasi ulang dari baris item.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body orderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customerID := body.CustomerID
	if customerID == "" {
		customerID = c.GetString("user_id")
	}

	order := models.Order{
		CustomerID:   customerID,
		BusinessID:   body.BusinessID,
		TotalAmount:  body.TotalAmount,
		Notes:        body.Notes,
		PickupTime:   body.PickupTime,
		CustomerName: body.CustomerName,
	}

	if len(body.Items) == 0 {
		if err := oc.DB.Create(&order).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusCreated, "Order created", order)
		return
	}

	var sum float64
	for _, it := range body.Items {
		sum += it.Price * float64(it.Quantity)
	}
	if math.Abs(sum-body.TotalAmount) > 0.01 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("total_amount does not match item rows"))
		return
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, it := range body.Items {
			item := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   it.ProductID,
				Quantity:    it.Quantity,
				Price:       it.Price,
				ProductName: it.ProductName,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := oc.DB.Preload("Items").First(&order, "id = ?", order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.Infof("Order %s created for business %s (%.2f TL)", order.OrderCode, order.BusinessID, order.TotalAmount)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// UpdateOrder hanya melayani perubahan status. Transisi yang sah: status
// berikutnya pada rantai, atau cancelled selama belum terminal.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	var order models.Order
	if err := oc.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	var patch struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !patch.Status.Valid() {
		utils.RespondError(c, http.StatusBadRequest, models.ErrUnknownStatus)
		return
	}

	allowed := false
	if patch.Status == models.StatusCancelled {
		allowed = order.Status.CanCancel()
	} else if next, ok := order.Status.Next(); ok && next == patch.Status {
		allowed = true
	}
	if !allowed {
		utils.RespondError(c, http.StatusConflict,
			errors.New("invalid status transition: "+string(order.Status)+" -> "+string(patch.Status)))
		return
	}

	if err := oc.DB.Model(&order).Update("status", patch.Status).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := oc.DB.Preload("Items").First(&order, "id = ?", order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// CreateOrderItems menerima satu item atau array item (jalur dua langkah
// milik klien).
func (oc *OrderController) CreateOrderItems(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var items []orderItemRow
	body := bytes.TrimSpace(raw)
	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	} else {
		var single orderItemRow
		if err := json.Unmarshal(body, &single); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		items = []orderItemRow{single}
	}

	if len(items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no items provided"))
		return
	}

	rows := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		if it.OrderID == "" || it.ProductID == "" || it.Quantity <= 0 || it.Price <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order item row"))
			return
		}
		rows = append(rows, models.OrderItem{
			OrderID:     it.OrderID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			Price:       it.Price,
			ProductName: it.ProductName,
		})
	}

	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", rows[0].OrderID).Error; err != nil {
			return ErrNotFound
		}
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			code = http.StatusNotFound
		}
		utils.RespondError(c, code, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order items created", rows)
}

type orderItemRow struct {
	OrderID     string  `json:"order_id"`
	ProductID   string  `json:"product_id"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	ProductName string  `json:"product_name"`
}

// ListOrderItems -> ?order_id=eq.X
func (oc *OrderController) ListOrderItems(c *gin.Context) {
	var items []models.OrderItem
	q := applyListOptions(applyQueryFilters(oc.DB.Model(&models.OrderItem{}), c), c)
	if err := q.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of order items", items)
}
