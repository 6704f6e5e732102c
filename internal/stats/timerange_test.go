package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveTimeRangeDefaultsToFullHistory(t *testing.T) {
	referenceTime := time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)

	resolvedRange, rangeError := ResolveTimeRange(referenceTime, RangeSpecification{})
	require.NoError(t, rangeError)
	require.Equal(t, int64(math.MinInt64), resolvedRange.StartSeconds)
	require.Equal(t, int64(math.MaxInt64), resolvedRange.EndSeconds)
	require.Equal(t, "initial commit", resolvedRange.StartLabel)
	require.Empty(t, resolvedRange.EndLabel)
	require.True(t, resolvedRange.EndIsLatest)
}

func TestResolveTimeRangeIgnoresBlankDates(t *testing.T) {
	referenceTime := time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)

	resolvedRange, rangeError := ResolveTimeRange(referenceTime, RangeSpecification{FromDate: "   ", ToDate: " "})
	require.NoError(t, rangeError)
	require.Equal(t, int64(math.MinInt64), resolvedRange.StartSeconds)
	require.Equal(t, int64(math.MaxInt64), resolvedRange.EndSeconds)
	require.True(t, resolvedRange.EndIsLatest)
}

func TestResolveTimeRangeResolvesAbsoluteDates(t *testing.T) {
	referenceTime := time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)

	resolvedRange, rangeError := ResolveTimeRange(referenceTime, RangeSpecification{FromDate: "2024-03-01", ToDate: "2024-06-12"})
	require.NoError(t, rangeError)
	require.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).Unix(), resolvedRange.StartSeconds)
	require.Equal(t, time.Date(2024, time.June, 12, 23, 59, 59, 0, time.UTC).Unix(), resolvedRange.EndSeconds)
	require.Equal(t, "2024-03-01", resolvedRange.StartLabel)
	require.Equal(t, "2024-06-12", resolvedRange.EndLabel)
	require.False(t, resolvedRange.EndIsLatest)
}

func TestResolveTimeRangeResolvesRelativeWindows(t *testing.T) {
	referenceTime := time.Date(2024, time.May, 31, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name               string
		specification      RangeSpecification
		expectedStart      time.Time
		expectedStartLabel string
	}{
		{
			name:               "ThreeDays",
			specification:      RangeSpecification{Days: CountSpecifier{Value: 3, Provided: true}},
			expectedStart:      time.Date(2024, time.May, 28, 10, 30, 0, 0, time.UTC),
			expectedStartLabel: "2024-05-28 (last 3 days)",
		},
		{
			name:               "SingleDay",
			specification:      RangeSpecification{Days: CountSpecifier{Value: 1, Provided: true}},
			expectedStart:      time.Date(2024, time.May, 30, 10, 30, 0, 0, time.UTC),
			expectedStartLabel: "2024-05-30 (last 1 day)",
		},
		{
			name:               "TwoWeeks",
			specification:      RangeSpecification{Weeks: CountSpecifier{Value: 2, Provided: true}},
			expectedStart:      time.Date(2024, time.May, 17, 10, 30, 0, 0, time.UTC),
			expectedStartLabel: "2024-05-17 (last 2 weeks)",
		},
		{
			name:               "ThreeMonthsClampedToLeapDay",
			specification:      RangeSpecification{Months: CountSpecifier{Value: 3, Provided: true}},
			expectedStart:      time.Date(2024, time.February, 29, 10, 30, 0, 0, time.UTC),
			expectedStartLabel: "2024-02-29 (last 3 months)",
		},
		{
			name:               "SixMonthsAcrossYearBoundary",
			specification:      RangeSpecification{Months: CountSpecifier{Value: 6, Provided: true}},
			expectedStart:      time.Date(2023, time.November, 30, 10, 30, 0, 0, time.UTC),
			expectedStartLabel: "2023-11-30 (last 6 months)",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resolvedRange, rangeError := ResolveTimeRange(referenceTime, testCase.specification)
			require.NoError(t, rangeError)
			require.Equal(t, testCase.expectedStart.Unix(), resolvedRange.StartSeconds)
			require.Equal(t, testCase.expectedStartLabel, resolvedRange.StartLabel)
			require.True(t, resolvedRange.EndIsLatest)
		})
	}
}

func TestResolveTimeRangeAnchorsRelativeWindowToEndDate(t *testing.T) {
	referenceTime := time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)

	resolvedRange, rangeError := ResolveTimeRange(referenceTime, RangeSpecification{
		ToDate: "2024-03-31",
		Months: CountSpecifier{Value: 1, Provided: true},
	})
	require.NoError(t, rangeError)
	require.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC).Unix(), resolvedRange.StartSeconds)
	require.Equal(t, "2024-02-29 (last 1 month)", resolvedRange.StartLabel)
	require.Equal(t, time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC).Unix(), resolvedRange.EndSeconds)
	require.Equal(t, "2024-03-31", resolvedRange.EndLabel)
	require.False(t, resolvedRange.EndIsLatest)
}

func TestResolveTimeRangeValidatesSpecifiers(t *testing.T) {
	referenceTime := time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		specification RangeSpecification
		expectedError string
	}{
		{
			name: "FromAndDaysConflict",
			specification: RangeSpecification{
				FromDate: "2024-03-01",
				Days:     CountSpecifier{Value: 3, Provided: true},
			},
			expectedError: "use at most one of --from, --days, --weeks, or --months",
		},
		{
			name: "DaysAndWeeksConflict",
			specification: RangeSpecification{
				Days:  CountSpecifier{Value: 3, Provided: true},
				Weeks: CountSpecifier{Value: 1, Provided: true},
			},
			expectedError: "use at most one of --from, --days, --weeks, or --months",
		},
		{
			name:          "ZeroDays",
			specification: RangeSpecification{Days: CountSpecifier{Value: 0, Provided: true}},
			expectedError: "--days must be at least 1",
		},
		{
			name:          "NegativeWeeks",
			specification: RangeSpecification{Weeks: CountSpecifier{Value: -2, Provided: true}},
			expectedError: "--weeks must be at least 1",
		},
		{
			name:          "ZeroMonths",
			specification: RangeSpecification{Months: CountSpecifier{Value: 0, Provided: true}},
			expectedError: "--months must be at least 1",
		},
		{
			name:          "MalformedFromDate",
			specification: RangeSpecification{FromDate: "12-06-2024"},
			expectedError: `invalid from date "12-06-2024" (expected YYYY-MM-DD)`,
		},
		{
			name:          "MalformedToDate",
			specification: RangeSpecification{ToDate: "June 1"},
			expectedError: `invalid to date "June 1" (expected YYYY-MM-DD)`,
		},
		{
			name: "StartAfterEnd",
			specification: RangeSpecification{
				FromDate: "2024-06-12",
				ToDate:   "2024-03-01",
			},
			expectedError: "start date 2024-06-12 is after end date 2024-03-01",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, rangeError := ResolveTimeRange(referenceTime, testCase.specification)
			require.EqualError(t, rangeError, testCase.expectedError)
		})
	}
}
