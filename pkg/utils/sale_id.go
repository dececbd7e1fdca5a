package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const saleIDLayout = "20060102150405"

// GenerateSaleID returns SALE-<YYYYMMDDHHMMSS>-<4 hex chars>. The suffix keeps
// two sales created in the same second apart.
func GenerateSaleID(now time.Time) string {
	return "SALE-" + now.Format(saleIDLayout) + "-" + strings.ToUpper(uuid.New().String()[:4])
}

// SaleIDTime recovers the creation second encoded in a sale id.
func SaleIDTime(saleID string, loc *time.Location) (time.Time, bool) {
	parts := strings.Split(saleID, "-")
	if len(parts) < 2 || parts[0] != "SALE" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(saleIDLayout, parts[1], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
