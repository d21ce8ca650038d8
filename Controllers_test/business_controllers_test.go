package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazirlageldim/pickup-app/models"
)

func TestCreateAndPatchBusiness(t *testing.T) {
	r, db := setupEnv(t)
	_, token := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)

	w := doJSON(t, r, http.MethodPost, "/businesses", token, map[string]interface{}{
		"name":            "Geldim Büfe",
		"address":         "İstiklal Cd. 1",
		"latitude":        41.03,
		"longitude":       28.97,
		"payment_methods": []string{"cash"},
		"opening_time":    "09:00:00",
		"closing_time":    "18:00:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var business models.Business
	decodeData(t, w, &business)
	assert.NotEmpty(t, business.ID)
	assert.True(t, business.IsActive)

	w = doJSON(t, r, http.MethodPatch, "/businesses/"+business.ID, token, map[string]interface{}{
		"name":            "Geldim Büfe 2",
		"payment_methods": []string{"cash", "card"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Business
	decodeData(t, w, &updated)
	assert.Equal(t, "Geldim Büfe 2", updated.Name)
	assert.ElementsMatch(t, []string{"cash", "card"}, []string(updated.PaymentMethods))
}

func TestCreateBusinessRejectsBadCoordinates(t *testing.T) {
	r, db := setupEnv(t)
	_, token := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)

	w := doJSON(t, r, http.MethodPost, "/businesses", token, map[string]interface{}{
		"name":     "X",
		"address":  "Y",
		"latitude": 123.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBusinessesFiltersByOwner(t *testing.T) {
	r, db := setupEnv(t)
	owner, token := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)
	other, _ := seedUser(t, db, "other@example.com", models.UserTypeBusiness)

	mine := seedBusiness(t, db, owner.ID, 41, 29)
	seedBusiness(t, db, other.ID, 41, 29)

	w := doJSON(t, r, http.MethodGet, "/businesses?owner_id=eq."+owner.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.Business
	decodeData(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
}

func TestNearbyRPCSortsAndBoundsByDistance(t *testing.T) {
	r, db := setupEnv(t)
	owner, token := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)

	// Kadıköy is ~6 km from the city center point, Gebze far beyond 20 km.
	center := seedBusiness(t, db, owner.ID, 41.0082, 28.9784)
	kadikoy := seedBusiness(t, db, owner.ID, 40.9900, 29.0250)
	farAway := seedBusiness(t, db, owner.ID, 40.8000, 29.4300)

	inactive := seedBusiness(t, db, owner.ID, 41.0082, 28.9784)
	require.NoError(t, db.Model(&inactive).Update("is_active", false).Error)

	w := doJSON(t, r, http.MethodPost, "/rpc/get_nearby_businesses", token, map[string]interface{}{
		"user_lat": 41.0082,
		"user_lng": 28.9784,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var rows []struct {
		models.Business
		DistanceKm float64 `json:"distance_km"`
	}
	decodeData(t, w, &rows)

	require.Len(t, rows, 2)
	assert.Equal(t, center.ID, rows[0].ID)
	assert.Equal(t, kadikoy.ID, rows[1].ID)
	assert.Less(t, rows[0].DistanceKm, rows[1].DistanceKm)
	for _, row := range rows {
		assert.NotEqual(t, farAway.ID, row.ID)
		assert.LessOrEqual(t, row.DistanceKm, 20.0)
	}
}

func TestNearbyRPCAcceptsZeroCoordinate(t *testing.T) {
	r, db := setupEnv(t)
	owner, token := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)

	// Gulf of Guinea, just north of the equator
	onEquator := seedBusiness(t, db, owner.ID, 0.01, 6.5)

	w := doJSON(t, r, http.MethodPost, "/rpc/get_nearby_businesses", token, map[string]interface{}{
		"user_lat": 0.0,
		"user_lng": 6.5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var rows []struct {
		models.Business
		DistanceKm float64 `json:"distance_km"`
	}
	decodeData(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, onEquator.ID, rows[0].ID)
	assert.InDelta(t, 1.11, rows[0].DistanceKm, 0.05)

	// omitting a coordinate is still a client error
	w = doJSON(t, r, http.MethodPost, "/rpc/get_nearby_businesses", token, map[string]interface{}{
		"user_lng": 6.5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchNearbyRPC(t *testing.T) {
	r, db := setupEnv(t)
	owner, token := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)

	match := seedBusiness(t, db, owner.ID, 41.0082, 28.9784)
	require.NoError(t, db.Model(&match).Update("name", "Simit Sarayı").Error)
	seedBusiness(t, db, owner.ID, 41.0082, 28.9784)

	w := doJSON(t, r, http.MethodPost, "/rpc/search_nearby_businesses", token, map[string]interface{}{
		"user_lat":    41.0082,
		"user_lng":    28.9784,
		"search_term": "simit",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.Business
	decodeData(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, match.ID, rows[0].ID)
}

func TestUnknownRPC(t *testing.T) {
	r, db := setupEnv(t)
	_, token := seedUser(t, db, "owner@example.com", models.UserTypeBusiness)

	w := doJSON(t, r, http.MethodPost, "/rpc/drop_all_tables", token, map[string]interface{}{
		"user_lat": 41.0, "user_lng": 29.0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
