package attendance

import (
	"math"
	"time"

	"gymtag-backend/internal/database"
	"gymtag-backend/internal/models"

	"gorm.io/gorm"
)

// Haftalık kullanım grafiği için gün etiketleri, Pazar'dan başlar.
var dayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type DayUsage struct {
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
}

// DurationHours giriş-çıkış arasını saat cinsinden, 2 ondalık yuvarlanmış döner.
func DurationHours(checkIn, checkOut time.Time) float64 {
	h := checkOut.Sub(checkIn).Hours()
	return math.Round(h*100) / 100
}

// StartOfWeek verilen anın haftasının başını (Pazar 00:00, yerel saat) döner.
func StartOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeeklyBuckets kapanmış kayıtları haftanın gününe göre toplar.
// Her zaman 7 eleman döner (Pazar→Cumartesi), boş günler 0 ile doldurulur,
// saatler 1 ondalığa yuvarlanır.
func WeeklyBuckets(records []models.AttendanceRecord) []DayUsage {
	var totals [7]float64
	for _, r := range records {
		if r.Duration == nil {
			continue
		}
		totals[int(r.CheckIn.Weekday())] += *r.Duration
	}

	result := make([]DayUsage, 7)
	for i := range dayLabels {
		result[i] = DayUsage{
			Day:   dayLabels[i],
			Hours: math.Round(totals[i]*10) / 10,
		}
	}
	return result
}

// TotalHours üyenin kapanmış tüm seanslarının toplam süresidir;
// açık seanslar toplamı etkilemez.
func TotalHours(userID uint) (float64, error) {
	var total float64
	err := database.DB.Model(&models.AttendanceRecord{}).
		Select("COALESCE(SUM(duration), 0)").
		Where("user_id = ? AND duration IS NOT NULL", userID).
		Scan(&total).Error
	return total, err
}

// OpenSession üyenin açık seansını döner; yoksa gorm.ErrRecordNotFound.
func OpenSession(tx *gorm.DB, userID uint) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	if err := tx.Where("user_id = ? AND check_out IS NULL", userID).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// HasOpenSession, RFID okuma akışında üye kartı okutulduğunda
// giriş mi çıkış mı yapılacağını göstermek için kullanılıyor.
func HasOpenSession(userID uint) bool {
	_, err := OpenSession(database.DB, userID)
	return err == nil
}
