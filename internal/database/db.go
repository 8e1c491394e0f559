package database

import (
	"log"

	"gymtag-backend/internal/config"
	"gymtag-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Account{},
		&models.User{},
		&models.AttendanceRecord{},
		&models.PaymentRecord{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Açık seans invariantı: bir üyenin aynı anda en fazla bir açık kaydı olabilir.
	// AutoMigrate partial index üretmediği için manuel ekleniyor; eşzamanlı
	// check-in yarışında son çare bu kısıt.
	if err := DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_open_session
		ON attendance_records(user_id) WHERE check_out IS NULL
	`).Error; err != nil {
		log.Fatalf("Açık seans index'i oluşturulamadı: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
