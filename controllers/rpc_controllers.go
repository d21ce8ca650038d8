package controllers

import (
	"errors"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hazirlageldim/pickup-app/models"
	"github.com/hazirlageldim/pickup-app/utils"
)

type RPCController struct {
	DB *gorm.DB
}

func NewRPCController(db *gorm.DB) *RPCController {
	return &RPCController{DB: db}
}

// BusinessWithDistance adalah baris hasil RPC nearby: business + jaraknya
// dari titik pengguna dalam km.
type BusinessWithDistance struct {
	models.Business
	DistanceKm float64 `json:"distance_km"`
}

// Koordinat pakai pointer: 0,0 adalah titik yang sah, jadi "required"
// pada float64 biasa akan salah menolaknya.
type nearbyArgs struct {
	UserLat       *float64 `json:"user_lat" binding:"required,gte=-90,lte=90"`
	UserLng       *float64 `json:"user_lng" binding:"required,gte=-180,lte=180"`
	MaxDistanceKm float64  `json:"max_distance_km"`
	LimitCount    int      `json:"limit_count"`
	OffsetCount   int      `json:"offset_count"`
	SearchTerm    string   `json:"search_term"`
}

const earthRadiusKm = 6371.0

// haversineKm menghitung jarak lingkaran besar antara dua koordinat.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Call melayani POST /rpc/:name.
func (rc *RPCController) Call(c *gin.Context) {
	switch c.Param("name") {
	case "get_nearby_businesses":
		rc.nearby(c, false)
	case "search_nearby_businesses":
		rc.nearby(c, true)
	default:
		utils.RespondError(c, http.StatusNotFound, errors.New("unknown rpc: "+c.Param("name")))
	}
}

func (rc *RPCController) nearby(c *gin.Context, search bool) {
	var args nearbyArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if args.MaxDistanceKm <= 0 {
		args.MaxDistanceKm = 20
	}
	if args.LimitCount <= 0 {
		args.LimitCount = 50
	}
	if search && strings.TrimSpace(args.SearchTerm) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("search_term is required"))
		return
	}

	q := rc.DB.Where("is_active = ?", true)
	if search {
		like := "%" + strings.ToLower(strings.TrimSpace(args.SearchTerm)) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var businesses []models.Business
	if err := q.Find(&businesses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rows := make([]BusinessWithDistance, 0, len(businesses))
	for _, b := range businesses {
		d := haversineKm(*args.UserLat, *args.UserLng, b.Latitude, b.Longitude)
		if d > args.MaxDistanceKm {
			continue
		}
		rows = append(rows, BusinessWithDistance{Business: b, DistanceKm: math.Round(d*100) / 100})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].DistanceKm < rows[j].DistanceKm })

	if args.OffsetCount >= len(rows) {
		rows = rows[:0]
	} else {
		rows = rows[args.OffsetCount:]
	}
	if len(rows) > args.LimitCount {
		rows = rows[:args.LimitCount]
	}

	utils.RespondJSON(c, http.StatusOK, "Nearby businesses", rows)
}
