package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexDate_Kind(t *testing.T) {
	tests := []struct {
		date FlexDate
		want DateKind
	}{
		{"", DateEmpty},
		{"   ", DateEmpty},
		{"1950-03-15", DateFull},
		{"1950-02-30", DateUnknown},
		{"1950", DateYearOnly},
		{"--03-15", DateMonthDay},
		{"--02-29", DateMonthDay},
		{"--13-01", DateUnknown},
		{"lunar:15/8", DateLunar},
		{"LUNAR:1/1", DateLunar},
		{"sometime", DateUnknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.date), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.date.Kind())
		})
	}
}

func TestFlexDate_Accessors(t *testing.T) {
	y, ok := FlexDate("1950-03-15").Year()
	require.True(t, ok)
	assert.Equal(t, 1950, y)

	y, ok = FlexDate("1901").Year()
	require.True(t, ok)
	assert.Equal(t, 1901, y)

	_, ok = FlexDate("--03-15").Year()
	assert.False(t, ok)

	m, d, ok := FlexDate("--03-15").MonthDay()
	require.True(t, ok)
	assert.Equal(t, time.March, m)
	assert.Equal(t, 15, d)

	_, _, ok = FlexDate("1950").MonthDay()
	assert.False(t, ok)

	tm, ok := FlexDate("1950-03-15").Time(time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(1950, time.March, 15, 0, 0, 0, 0, time.UTC), tm)
}

func TestFlexDate_FormatDisplay(t *testing.T) {
	assert.Equal(t, "15/03/1950", FlexDate("1950-03-15").FormatDisplay())
	assert.Equal(t, "05/01", FlexDate("--01-05").FormatDisplay())
	assert.Equal(t, "1950", FlexDate("1950").FormatDisplay())
	assert.Equal(t, "lunar:1/1", FlexDate("lunar:1/1").FormatDisplay())
	assert.Equal(t, "", FlexDate("").FormatDisplay())
}

func TestParseDisplayDate(t *testing.T) {
	tests := []struct {
		input string
		want  FlexDate
	}{
		{"15/03/1950", "1950-03-15"},
		{"5-3-1950", "1950-03-05"},
		{"15/03/49", "2049-03-15"},
		{"15/03/50", "1950-03-15"},
		{"15/03", "--03-15"},
		{"1950-03-15", "1950-03-15"},
		{"1950", "1950"},
		{"lunar:8/15", "lunar:8/15"},
		{"  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDisplayDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"31/02/1950", "32/01", "tomorrow"} {
		_, err := ParseDisplayDate(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestFlexDate_NextOccurrence(t *testing.T) {
	ref := time.Date(2024, time.December, 30, 18, 30, 0, 0, time.UTC)

	next, days, ok := FlexDate("1990-12-30").NextOccurrence(ref)
	require.True(t, ok)
	assert.Equal(t, 0, days)
	assert.Equal(t, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), next)

	next, days, ok = FlexDate("--01-02").NextOccurrence(ref)
	require.True(t, ok)
	assert.Equal(t, 3, days)
	assert.Equal(t, 2025, next.Year())

	_, _, ok = FlexDate("1990").NextOccurrence(ref)
	assert.False(t, ok)
	_, _, ok = FlexDate("lunar:1/1").NextOccurrence(ref)
	assert.False(t, ok)
}

func TestFlexDate_Age(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		birth  FlexDate
		death  FlexDate
		want   int
		wantOK bool
	}{
		{name: "birthday passed", birth: "1950-06-01", want: 74, wantOK: true},
		{name: "birthday ahead", birth: "1950-07-01", want: 73, wantOK: true},
		{name: "year only", birth: "1950", want: 74, wantOK: true},
		{name: "age at death", birth: "1920-05-01", death: "1990-04-30", want: 69, wantOK: true},
		{name: "death year only", birth: "1920-05-01", death: "1990", want: 70, wantOK: true},
		{name: "no birth", death: "1990", wantOK: false},
		{name: "lunar death", birth: "1920", death: "lunar:1/1", wantOK: false},
		{name: "born in future", birth: "2030-01-01", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age, ok := tt.birth.Age(tt.death, now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, age)
			}
		})
	}
}
