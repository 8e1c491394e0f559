package users

import (
	"testing"
	"time"

	"gymtag-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestDefaultFee(t *testing.T) {
	assert.Equal(t, 49.99, DefaultFee(models.MembershipBasic))
	assert.Equal(t, 99.99, DefaultFee(models.MembershipPremium))
	assert.Equal(t, 149.99, DefaultFee(models.MembershipFamily))
	assert.Equal(t, 39.99, DefaultFee(models.MembershipStudent))
	assert.Equal(t, 44.99, DefaultFee(models.MembershipSenior))
	assert.Equal(t, 199.99, DefaultFee(models.MembershipCorporate))
}

func TestFeeFor(t *testing.T) {
	custom := 75.0
	u := models.User{MembershipType: models.MembershipPremium, MembershipFee: &custom}
	assert.Equal(t, 75.0, FeeFor(&u))

	u.MembershipFee = nil
	assert.Equal(t, 99.99, FeeFor(&u))
}

func TestClassifyPayment(t *testing.T) {
	ref := date(2024, 5, 10)

	due := func(d time.Time) *time.Time { return &d }

	tests := []struct {
		name   string
		user   models.User
		expect PaymentClass
	}{
		{
			"vadesi geçmiş ve ödenmemiş",
			models.User{NextPaymentDue: due(date(2024, 5, 5)), PaymentStatus: models.PaymentPending},
			ClassOverdue,
		},
		{
			"7 gün içinde vade",
			models.User{NextPaymentDue: due(date(2024, 5, 12)), PaymentStatus: models.PaymentPending},
			ClassUpcoming,
		},
		{
			"vade bugün",
			models.User{NextPaymentDue: due(date(2024, 5, 10)), PaymentStatus: models.PaymentPending},
			ClassUpcoming,
		},
		{
			"vade tam 7 gün sonra",
			models.User{NextPaymentDue: due(date(2024, 5, 17)), PaymentStatus: models.PaymentPaid},
			ClassUpcoming,
		},
		{
			"vade uzak",
			models.User{NextPaymentDue: due(date(2024, 6, 20)), PaymentStatus: models.PaymentPaid},
			ClassCurrent,
		},
		{
			"vadesi geçmiş ama ödenmiş",
			models.User{NextPaymentDue: due(date(2024, 5, 5)), PaymentStatus: models.PaymentPaid},
			ClassCurrent,
		},
		{
			"vadesi yok",
			models.User{PaymentStatus: models.PaymentPending},
			ClassCurrent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ClassifyPayment(&tt.user, ref))
		})
	}
}

func TestNextDueDate(t *testing.T) {
	current := date(2024, 5, 1)

	// Mevcut vade varsa ondan ilerler
	got := NextDueDate(&current, date(2024, 4, 20), 1)
	assert.Equal(t, date(2024, 6, 1), got)

	// Vade yoksa ödeme tarihinden
	got = NextDueDate(nil, date(2024, 4, 20), 3)
	assert.Equal(t, date(2024, 7, 20), got)

	// Yıl devri
	nov := date(2024, 11, 15)
	got = NextDueDate(&nov, nov, 2)
	assert.Equal(t, date(2025, 1, 15), got)
}
