package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hazirlageldim/pickup-app/models"
	"github.com/hazirlageldim/pickup-app/utils"
)

type BusinessController struct {
	DB *gorm.DB
}

func NewBusinessController(db *gorm.DB) *BusinessController {
	return &BusinessController{DB: db}
}

// ListBusinesses -> filtered list, e.g. ?owner_id=eq.<uuid>
func (bc *BusinessController) ListBusinesses(c *gin.Context) {
	var businesses []models.Business
	q := applyListOptions(applyQueryFilters(bc.DB.Model(&models.Business{}), c), c)
	if err := q.Find(&businesses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of businesses", businesses)
}

func (bc *BusinessController) GetBusiness(c *gin.Context) {
	var business models.Business
	if err := bc.DB.First(&business, "id = ?", c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Business detail", business)
}

type businessBody struct {
	OwnerID        string   `json:"owner_id"`
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Address        string   `json:"address" binding:"required"`
	Latitude       float64  `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude      float64  `json:"longitude" binding:"gte=-180,lte=180"`
	Phone          string   `json:"phone"`
	PaymentMethods []string `json:"payment_methods"`
	OpeningTime    *string  `json:"opening_time"`
	ClosingTime    *string  `json:"closing_time"`
}

func (bc *BusinessController) CreateBusiness(c *gin.Context) {
	var body businessBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := body.OwnerID
	if ownerID == "" {
		ownerID = c.GetString("user_id")
	}

	business := models.Business{
		OwnerID:        ownerID,
		Name:           body.Name,
		Description:    body.Description,
		Address:        body.Address,
		Latitude:       body.Latitude,
		Longitude:      body.Longitude,
		Phone:          body.Phone,
		IsActive:       true,
		PaymentMethods: models.StringList(body.PaymentMethods),
		OpeningTime:    body.OpeningTime,
		ClosingTime:    body.ClosingTime,
	}

	if err := bc.DB.Create(&business).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Business created", business)
}

func (bc *BusinessController) UpdateBusiness(c *gin.Context) {
	var business models.Business
	if err := bc.DB.First(&business, "id = ?", c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// payment_methods arrives as a JSON array; store it through StringList
	if raw, ok := patch["payment_methods"]; ok {
		if arr, ok := raw.([]interface{}); ok {
			var list models.StringList
			for _, v := range arr {
				if s, ok := v.(string); ok {
					list = append(list, s)
				}
			}
			value, _ := list.Value()
			patch["payment_methods"] = value
		}
	}

	if err := bc.DB.Model(&business).Updates(patch).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := bc.DB.First(&business, "id = ?", business.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Business updated", business)
}
