package users

import (
	"time"

	"gymtag-backend/internal/models"
)

// Üyelik tipi başına varsayılan aylık ücret. Kullanıcı kaydında açık bir
// ücret yoksa buradan türetilir.
var defaultFees = map[models.MembershipType]float64{
	models.MembershipBasic:     49.99,
	models.MembershipPremium:   99.99,
	models.MembershipFamily:    149.99,
	models.MembershipStudent:   39.99,
	models.MembershipSenior:    44.99,
	models.MembershipCorporate: 199.99,
}

func DefaultFee(t models.MembershipType) float64 {
	return defaultFees[t]
}

// FeeFor kullanıcının geçerli aidatını döner: açıkça girilmiş ücret varsa o,
// yoksa üyelik tipinin varsayılanı.
func FeeFor(u *models.User) float64 {
	if u.MembershipFee != nil {
		return *u.MembershipFee
	}
	return DefaultFee(u.MembershipType)
}

type PaymentClass string

const (
	ClassOverdue  PaymentClass = "overdue"
	ClassUpcoming PaymentClass = "upcoming"
	ClassCurrent  PaymentClass = "current"
)

// ClassifyPayment üyeyi vade durumuna göre sınıflar:
// vade geçmiş ve ödenmemişse "overdue", vade referanstan itibaren 7 gün
// içindeyse "upcoming", aksi halde "current". Vadesi olmayan üye "current".
func ClassifyPayment(u *models.User, ref time.Time) PaymentClass {
	if u.NextPaymentDue == nil {
		return ClassCurrent
	}
	due := *u.NextPaymentDue

	if due.Before(ref) && u.PaymentStatus != models.PaymentPaid {
		return ClassOverdue
	}
	if !due.Before(ref) && !due.After(ref.AddDate(0, 0, 7)) {
		return ClassUpcoming
	}
	return ClassCurrent
}

// NextDueDate ödeme sonrası yeni vadeyi hesaplar: mevcut vade varsa ondan,
// yoksa ödeme tarihinden itibaren extendMonths ay ileri.
func NextDueDate(currentDue *time.Time, paymentDate time.Time, extendMonths int) time.Time {
	base := paymentDate
	if currentDue != nil {
		base = *currentDue
	}
	return base.AddDate(0, extendMonths, 0)
}
