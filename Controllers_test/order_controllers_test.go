package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazirlageldim/pickup-app/models"
)

func TestCreateOrderWithInlineItems(t *testing.T) {
	r, db := setupEnv(t)
	customer, token := seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)
	owner, _ := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)
	business := seedBusiness(t, db, owner.ID, 41, 29)

	w := doJSON(t, r, http.MethodPost, "/orders", token, map[string]interface{}{
		"business_id":   business.ID,
		"total_amount":  25.0,
		"customer_name": "Ayşe",
		"items": []map[string]interface{}{
			{"product_id": "p1", "quantity": 2, "price": 10.0, "product_name": "Çay"},
			{"product_id": "p2", "quantity": 1, "price": 5.0, "product_name": "Simit"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	decodeData(t, w, &order)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.NotEmpty(t, order.OrderCode)
	assert.Len(t, order.Items, 2)
}

func TestCreateOrderRejectsWrongTotal(t *testing.T) {
	r, db := setupEnv(t)
	_, token := seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)
	owner, _ := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)
	business := seedBusiness(t, db, owner.ID, 41, 29)

	w := doJSON(t, r, http.MethodPost, "/orders", token, map[string]interface{}{
		"business_id":   business.ID,
		"total_amount":  99.0,
		"customer_name": "Ayşe",
		"items": []map[string]interface{}{
			{"product_id": "p1", "quantity": 2, "price": 10.0},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestTwoStepOrderPlacement(t *testing.T) {
	r, db := setupEnv(t)
	_, token := seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)
	owner, _ := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)
	business := seedBusiness(t, db, owner.ID, 41, 29)

	w := doJSON(t, r, http.MethodPost, "/orders", token, map[string]interface{}{
		"business_id":   business.ID,
		"total_amount":  20.0,
		"customer_name": "Ayşe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	decodeData(t, w, &order)

	w = doJSON(t, r, http.MethodPost, "/order_items", token, []map[string]interface{}{
		{"order_id": order.ID, "product_id": "p1", "quantity": 2, "price": 10.0, "product_name": "Çay"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/order_items?order_id=eq."+order.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.OrderItem
	decodeData(t, w, &items)
	assert.Len(t, items, 1)
}

func TestOrderItemsForUnknownOrder(t *testing.T) {
	r, db := setupEnv(t)
	_, token := seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)

	w := doJSON(t, r, http.MethodPost, "/order_items", token, []map[string]interface{}{
		{"order_id": "missing", "product_id": "p1", "quantity": 1, "price": 5.0},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusTransitions(t *testing.T) {
	r, db := setupEnv(t)
	customer, token := seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)
	owner, _ := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)
	business := seedBusiness(t, db, owner.ID, 41, 29)

	order := seedOrder(t, db, customer.ID, business.ID, models.StatusPending)

	// skipping a stage is refused
	w := doJSON(t, r, http.MethodPatch, "/orders/"+order.ID, token, map[string]string{"status": "ready"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// walking the chain works
	for _, status := range []models.OrderStatus{
		models.StatusConfirmed, models.StatusPreparing, models.StatusReady, models.StatusCompleted,
	} {
		w = doJSON(t, r, http.MethodPatch, "/orders/"+order.ID, token, map[string]string{"status": string(status)})
		require.Equal(t, http.StatusOK, w.Code, status)
	}

	// terminal orders cannot move again
	w = doJSON(t, r, http.MethodPatch, "/orders/"+order.ID, token, map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelFromAnyActiveStatus(t *testing.T) {
	r, db := setupEnv(t)
	customer, token := seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)
	owner, _ := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)
	business := seedBusiness(t, db, owner.ID, 41, 29)

	for _, status := range []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing, models.StatusReady,
	} {
		order := seedOrder(t, db, customer.ID, business.ID, status)
		w := doJSON(t, r, http.MethodPatch, "/orders/"+order.ID, token, map[string]string{"status": "cancelled"})
		assert.Equal(t, http.StatusOK, w.Code, status)
	}
}

func TestUnknownStatusRejected(t *testing.T) {
	r, db := setupEnv(t)
	customer, token := seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)
	owner, _ := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)
	business := seedBusiness(t, db, owner.ID, 41, 29)
	order := seedOrder(t, db, customer.ID, business.ID, models.StatusPending)

	w := doJSON(t, r, http.MethodPatch, "/orders/"+order.ID, token, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOrdersNewestFirstWithBusiness(t *testing.T) {
	r, db := setupEnv(t)
	customer, token := seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)
	owner, _ := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)
	business := seedBusiness(t, db, owner.ID, 41, 29)

	seedOrder(t, db, customer.ID, business.ID, models.StatusPending)
	seedOrder(t, db, customer.ID, business.ID, models.StatusReady)

	w := doJSON(t, r, http.MethodGet, "/orders?customer_id=eq."+customer.ID+"&order=created_at.desc", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []models.Order
	decodeData(t, w, &orders)
	require.Len(t, orders, 2)
	require.NotNil(t, orders[0].Business)
	assert.Equal(t, business.Name, orders[0].Business.Name)
}

func TestOrderWritesChangeLog(t *testing.T) {
	_, db := setupEnv(t)
	customer, _ := seedUser(t, db, "ayse@example.com", models.UserTypeCustomer)
	owner, _ := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)
	business := seedBusiness(t, db, owner.ID, 41, 29)

	order := seedOrder(t, db, customer.ID, business.ID, models.StatusPending)

	var logs []models.ChangeLog
	require.NoError(t, db.Where("table_name = ? AND record_id = ?", "orders", order.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionInsert, logs[0].Action)
	assert.False(t, logs[0].Processed)
}
