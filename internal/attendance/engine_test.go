package attendance

import (
	"testing"
	"time"

	"gymtag-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationHours(t *testing.T) {
	in := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		out  time.Time
		want float64
	}{
		{"tam saat", in.Add(4 * time.Hour), 4},
		{"buçuk saat", in.Add(90 * time.Minute), 1.5},
		{"iki ondalığa yuvarlama", in.Add(100 * time.Minute), 1.67},
		{"çeyrek saat", in.Add(5*time.Hour + 15*time.Minute), 5.25},
		{"sıfır", in, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationHours(in, tt.out))
		})
	}
}

func TestStartOfWeek(t *testing.T) {
	// 2024-05-08 bir Çarşamba
	wed := time.Date(2024, 5, 8, 15, 30, 0, 0, time.Local)
	got := StartOfWeek(wed)

	assert.Equal(t, time.Sunday, got.Weekday())
	assert.Equal(t, time.Date(2024, 5, 5, 0, 0, 0, 0, time.Local), got)

	// Pazar günü haftanın başı kendisidir
	sun := time.Date(2024, 5, 5, 23, 59, 0, 0, time.Local)
	assert.Equal(t, time.Date(2024, 5, 5, 0, 0, 0, 0, time.Local), StartOfWeek(sun))
}

func TestWeeklyBuckets(t *testing.T) {
	sunday := time.Date(2024, 5, 5, 9, 0, 0, 0, time.Local)
	dur := func(h float64) *float64 { return &h }

	records := []models.AttendanceRecord{
		{CheckIn: sunday, Duration: dur(2)},                    // Pazar
		{CheckIn: sunday.AddDate(0, 0, 1), Duration: dur(1.5)}, // Pazartesi
		{CheckIn: sunday.AddDate(0, 0, 1), Duration: dur(2.25)},
		{CheckIn: sunday.AddDate(0, 0, 3), Duration: nil}, // açık seans, sayılmaz
	}

	got := WeeklyBuckets(records)
	require.Len(t, got, 7)

	want := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, day := range want {
		assert.Equal(t, day, got[i].Day)
		assert.GreaterOrEqual(t, got[i].Hours, 0.0)
	}

	assert.Equal(t, 2.0, got[0].Hours)
	assert.Equal(t, 3.8, got[1].Hours) // 3.75 → 1 ondalığa yuvarlanır
	for i := 2; i < 7; i++ {
		assert.Equal(t, 0.0, got[i].Hours)
	}
}

func TestWeeklyBucketsEmpty(t *testing.T) {
	got := WeeklyBuckets(nil)
	require.Len(t, got, 7)
	for _, d := range got {
		assert.Equal(t, 0.0, d.Hours)
	}
}
