package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hazirlageldim/pickup-app/models"
	"github.com/hazirlageldim/pickup-app/utils"
)

type MessageController struct {
	DB *gorm.DB
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{DB: db}
}

// ListMessages -> ?order_id=eq.X&order=created_at.asc
func (mc *MessageController) ListMessages(c *gin.Context) {
	var messages []models.Message
	q := applyListOptions(applyQueryFilters(mc.DB.Model(&models.Message{}), c), c)
	if err := q.Find(&messages).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of messages", messages)
}

func (mc *MessageController) CreateMessage(c *gin.Context) {
	type request struct {
		OrderID    string `json:"order_id" binding:"required"`
		SenderID   string `json:"sender_id"`
		SenderType string `json:"sender_type" binding:"required,oneof=customer business"`
		Message    string `json:"message" binding:"required,max=500"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		utils.RespondError(c, http.StatusBadRequest, gorm.ErrInvalidData)
		return
	}

	senderID := req.SenderID
	if senderID == "" {
		senderID = c.GetString("user_id")
	}

	var order models.Order
	if err := mc.DB.First(&order, "id = ?", req.OrderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	message := models.Message{
		OrderID:    req.OrderID,
		SenderID:   senderID,
		SenderType: req.SenderType,
		Message:    req.Message,
	}

	if err := mc.DB.Create(&message).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Message sent", message)
}
