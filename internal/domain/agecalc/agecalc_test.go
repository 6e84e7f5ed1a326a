package agecalc

import (
	"errors"
	"testing"
	"time"

	"github.com/bambini-app/bambini-api/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeInMonths(t *testing.T) {
	tests := []struct {
		name string
		dob  time.Time
		ref  time.Time
		want int
	}{
		{
			name: "day before month boundary",
			dob:  date(2023, time.January, 15),
			ref:  date(2023, time.March, 14),
			want: 1,
		},
		{
			name: "exactly on month boundary",
			dob:  date(2023, time.January, 15),
			ref:  date(2023, time.March, 15),
			want: 2,
		},
		{
			name: "same day",
			dob:  date(2023, time.January, 15),
			ref:  date(2023, time.January, 15),
			want: 0,
		},
		{
			name: "partial first month",
			dob:  date(2023, time.January, 15),
			ref:  date(2023, time.February, 10),
			want: 0,
		},
		{
			name: "across year boundary",
			dob:  date(2022, time.December, 20),
			ref:  date(2023, time.January, 20),
			want: 1,
		},
		{
			name: "across year boundary, day short",
			dob:  date(2022, time.December, 20),
			ref:  date(2023, time.January, 15),
			want: 0,
		},
		{
			name: "end of long month into short month",
			dob:  date(2023, time.January, 31),
			ref:  date(2023, time.February, 28),
			want: 0,
		},
		{
			name: "several years",
			dob:  date(2021, time.June, 1),
			ref:  date(2024, time.June, 1),
			want: 36,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AgeInMonths(tc.dob, tc.ref)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tc.want {
				t.Errorf("AgeInMonths(%v, %v) = %d, want %d", tc.dob, tc.ref, got, tc.want)
			}
		})
	}
}

func TestAgeInMonthsFutureDOB(t *testing.T) {
	cases := []struct {
		name string
		dob  time.Time
		ref  time.Time
	}{
		{"next day", date(2023, time.March, 16), date(2023, time.March, 15)},
		{"next month", date(2023, time.April, 1), date(2023, time.March, 15)},
		{"next year", date(2024, time.January, 1), date(2023, time.March, 15)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := AgeInMonths(tc.dob, tc.ref)
			if !errors.Is(err, domain.ErrInvalidDate) {
				t.Errorf("Expected domain.ErrInvalidDate, got %v", err)
			}
		})
	}
}

func TestAgeInMonthsNeverNegative(t *testing.T) {
	dob := date(2020, time.February, 29)
	ref := dob
	for i := 0; i < 1500; i++ {
		got, err := AgeInMonths(dob, ref)
		if err != nil {
			t.Fatalf("day %d: unexpected error %v", i, err)
		}
		if got < 0 {
			t.Fatalf("day %d: negative age %d", i, got)
		}
		ref = ref.AddDate(0, 0, 1)
	}
}
