package client

import (
	"fmt"
	"strings"

	"github.com/hazirlageldim/pickup-app/models"
)

// MapsURL builds a directions link to the business location.
func MapsURL(b models.Business) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%f,%f", b.Latitude, b.Longitude)
}

// TelURL builds a dialer link, keeping digits and a leading plus only.
func TelURL(phone string) string {
	var sb strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return "tel:" + sb.String()
}
