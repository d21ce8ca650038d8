package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hazirlageldim/pickup-app/models"
	"github.com/hazirlageldim/pickup-app/router"
	"github.com/hazirlageldim/pickup-app/utils"
)

func setupEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// satu database per test, supaya unique index email tidak bentrok
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Message{},
		&models.ChangeLog{},
	))

	return router.SetupRouter(db), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var env struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if dest != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
}

func seedUser(t *testing.T, db *gorm.DB, email, userType string) (models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Email:    email,
		FullName: "Test User",
		UserType: userType,
		Password: string(hashed),
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID, user.UserType)
	require.NoError(t, err)
	return user, token
}

func seedBusiness(t *testing.T, db *gorm.DB, ownerID string, lat, lng float64) models.Business {
	t.Helper()
	business := models.Business{
		OwnerID:        ownerID,
		Name:           "Geldim Büfe",
		Address:        "İstiklal Cd. 1",
		Latitude:       lat,
		Longitude:      lng,
		IsActive:       true,
		PaymentMethods: models.StringList{models.PaymentCash},
	}
	require.NoError(t, db.Create(&business).Error)
	return business
}

func seedOrder(t *testing.T, db *gorm.DB, customerID, businessID string, status models.OrderStatus) models.Order {
	t.Helper()
	order := models.Order{
		CustomerID:   customerID,
		BusinessID:   businessID,
		Status:       status,
		TotalAmount:  25,
		CustomerName: "Ayşe",
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}
