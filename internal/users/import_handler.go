package users

import (
	"fmt"
	"strings"
	"time"

	"gymtag-backend/internal/database"
	"gymtag-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ImportSkipped struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Created   int             `json:"created"`
	Skipped   []ImportSkipped `json:"skipped"`
	HeaderRow bool            `json:"header_row"`
}

// İlk satırın başlık satırı sayılması için ilk hücrenin birebir bu
// değerlerden biri olması gerekir. ("Adam" gibi üye isimleri başlık değildir.)
var headerTokens = map[string]bool{
	"NAME": true, "İSİM": true, "ISIM": true, "AD": true, "ÜYE": true, "UYE": true,
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	return headerTokens[strings.ToUpper(strings.TrimSpace(row[0]))]
}

// -------------------------------------------------
// POST /api/users/import  (sadece admin)
// Excel üye listesi yükler. Kolonlar: isim, email, rfid etiketi, üyelik tipi.
// İlk satır başlık satırıysa atlanır. RFID boşsa yeni etiket üretilir,
// üyelik tipi boşsa "basic" kabul edilir.
// -------------------------------------------------
func ImportUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		result := ImportResult{Skipped: make([]ImportSkipped, 0)}

		startIndex := 0
		if isHeaderRow(rows[0]) {
			startIndex = 1
			result.HeaderRow = true
		}

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			rowNum := i + 1

			cell := func(idx int) string {
				if idx < len(row) {
					return strings.TrimSpace(row[idx])
				}
				return ""
			}

			name := cell(0)
			email := strings.ToLower(cell(1))
			tag := cell(2)
			mtype := models.MembershipType(strings.ToLower(cell(3)))

			if name == "" && email == "" {
				continue // boş satır
			}
			if name == "" || email == "" {
				result.Skipped = append(result.Skipped, ImportSkipped{rowNum, "isim ve email zorunlu"})
				continue
			}

			if mtype == "" {
				mtype = models.MembershipBasic
			}
			if !models.ValidMembershipType(mtype) {
				result.Skipped = append(result.Skipped, ImportSkipped{rowNum, fmt.Sprintf("geçersiz üyelik tipi: %s", mtype)})
				continue
			}

			if tag == "" {
				tag = newRFIDTag()
			}

			var count int64
			if err := database.DB.Model(&models.User{}).
				Where("email = ? OR rfid_tag = ?", email, tag).
				Count(&count).Error; err != nil {
				result.Skipped = append(result.Skipped, ImportSkipped{rowNum, "üye kontrolü yapılamadı"})
				continue
			}
			if count > 0 {
				result.Skipped = append(result.Skipped, ImportSkipped{rowNum, "email veya RFID etiketi zaten kayıtlı"})
				continue
			}

			user := models.User{
				Name:           name,
				Email:          email,
				Avatar:         defaultAvatar(name),
				MembershipType: mtype,
				Status:         models.StatusActive,
				RFIDTag:        tag,
				MemberSince:    time.Now(),
				PaymentStatus:  models.PaymentPending,
			}

			if err := database.DB.Create(&user).Error; err != nil {
				result.Skipped = append(result.Skipped, ImportSkipped{rowNum, "kayıt oluşturulamadı"})
				continue
			}
			result.Created++
		}

		return c.JSON(result)
	}
}
