package stats

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	dateLayoutConstant                   = "2006-01-02"
	initialCommitLabelConstant           = "initial commit"
	relativeLabelTemplateConstant        = "%s (last %d %s)"
	dayUnitNameConstant                  = "day"
	weekUnitNameConstant                 = "week"
	monthUnitNameConstant                = "month"
	pluralSuffixConstant                 = "s"
	conflictingSpecifiersMessageConstant = "use at most one of --from, --days, --weeks, or --months"
	countTooSmallTemplateConstant        = "%s must be at least 1"
	invalidDateTemplateConstant          = "invalid %s date %q (expected YYYY-MM-DD)"
	startAfterEndTemplateConstant        = "start date %s is after end date %s"
	daysFlagLabelConstant                = "--days"
	weeksFlagLabelConstant               = "--weeks"
	monthsFlagLabelConstant              = "--months"
	fromDateLabelConstant                = "from"
	toDateLabelConstant                  = "to"
	hoursPerDayConstant                  = 24
	daysPerWeekConstant                  = 7
)

var errConflictingSpecifiers = errors.New(conflictingSpecifiersMessageConstant)

// CountSpecifier carries a relative window count and whether it was supplied.
type CountSpecifier struct {
	Value    int
	Provided bool
}

// RangeSpecification captures the window specifiers accepted by the stats
// command. FromDate, Days, Weeks, and Months are mutually exclusive; ToDate
// combines with any of them.
type RangeSpecification struct {
	FromDate string
	ToDate   string
	Days     CountSpecifier
	Weeks    CountSpecifier
	Months   CountSpecifier
}

// TimeRange is the resolved aggregation window. Unbounded edges hold the
// extreme int64 values so record filtering stays a pair of integer
// comparisons. When EndIsLatest is set the end label is deferred until the
// latest matching record is known.
type TimeRange struct {
	StartSeconds int64
	EndSeconds   int64
	StartLabel   string
	EndLabel     string
	EndIsLatest  bool
}

// ResolveTimeRange validates the specification and resolves it against the
// reference time. Dates are interpreted in the reference location. Months
// subtract calendar-aware, landing on the same day-of-month clamped to the
// target month's length; days and weeks subtract plain durations.
func ResolveTimeRange(referenceTime time.Time, specification RangeSpecification) (TimeRange, error) {
	trimmedFromDate := strings.TrimSpace(specification.FromDate)
	trimmedToDate := strings.TrimSpace(specification.ToDate)

	providedSpecifiers := 0
	if len(trimmedFromDate) > 0 {
		providedSpecifiers++
	}
	for _, counter := range []CountSpecifier{specification.Days, specification.Weeks, specification.Months} {
		if counter.Provided {
			providedSpecifiers++
		}
	}
	if providedSpecifiers > 1 {
		return TimeRange{}, errConflictingSpecifiers
	}

	if specification.Days.Provided && specification.Days.Value < 1 {
		return TimeRange{}, fmt.Errorf(countTooSmallTemplateConstant, daysFlagLabelConstant)
	}
	if specification.Weeks.Provided && specification.Weeks.Value < 1 {
		return TimeRange{}, fmt.Errorf(countTooSmallTemplateConstant, weeksFlagLabelConstant)
	}
	if specification.Months.Provided && specification.Months.Value < 1 {
		return TimeRange{}, fmt.Errorf(countTooSmallTemplateConstant, monthsFlagLabelConstant)
	}

	resolvedRange := TimeRange{
		StartSeconds: math.MinInt64,
		EndSeconds:   math.MaxInt64,
		StartLabel:   initialCommitLabelConstant,
		EndIsLatest:  true,
	}

	endReference := referenceTime
	if len(trimmedToDate) > 0 {
		parsedToDate, parseError := time.ParseInLocation(dateLayoutConstant, trimmedToDate, referenceTime.Location())
		if parseError != nil {
			return TimeRange{}, fmt.Errorf(invalidDateTemplateConstant, toDateLabelConstant, trimmedToDate)
		}
		toYear, toMonth, toDay := parsedToDate.Date()
		resolvedRange.EndSeconds = time.Date(toYear, toMonth, toDay, 23, 59, 59, 0, referenceTime.Location()).Unix()
		resolvedRange.EndLabel = parsedToDate.Format(dateLayoutConstant)
		resolvedRange.EndIsLatest = false
		endReference = parsedToDate
	}

	switch {
	case len(trimmedFromDate) > 0:
		parsedFromDate, parseError := time.ParseInLocation(dateLayoutConstant, trimmedFromDate, referenceTime.Location())
		if parseError != nil {
			return TimeRange{}, fmt.Errorf(invalidDateTemplateConstant, fromDateLabelConstant, trimmedFromDate)
		}
		resolvedRange.StartSeconds = parsedFromDate.Unix()
		resolvedRange.StartLabel = parsedFromDate.Format(dateLayoutConstant)
	case specification.Days.Provided:
		startTime := endReference.Add(-time.Duration(specification.Days.Value) * hoursPerDayConstant * time.Hour)
		resolvedRange.StartSeconds = startTime.Unix()
		resolvedRange.StartLabel = relativeLabel(startTime, specification.Days.Value, dayUnitNameConstant)
	case specification.Weeks.Provided:
		startTime := endReference.Add(-time.Duration(specification.Weeks.Value*daysPerWeekConstant) * hoursPerDayConstant * time.Hour)
		resolvedRange.StartSeconds = startTime.Unix()
		resolvedRange.StartLabel = relativeLabel(startTime, specification.Weeks.Value, weekUnitNameConstant)
	case specification.Months.Provided:
		startTime := subtractMonths(endReference, specification.Months.Value)
		resolvedRange.StartSeconds = startTime.Unix()
		resolvedRange.StartLabel = relativeLabel(startTime, specification.Months.Value, monthUnitNameConstant)
	}

	if resolvedRange.StartSeconds != math.MinInt64 && resolvedRange.StartSeconds > resolvedRange.EndSeconds {
		return TimeRange{}, fmt.Errorf(startAfterEndTemplateConstant, resolvedRange.StartLabel, resolvedRange.EndLabel)
	}

	return resolvedRange, nil
}

func relativeLabel(startTime time.Time, count int, unitName string) string {
	pluralizedUnit := unitName
	if count != 1 {
		pluralizedUnit += pluralSuffixConstant
	}
	return fmt.Sprintf(relativeLabelTemplateConstant, startTime.Format(dateLayoutConstant), count, pluralizedUnit)
}

func subtractMonths(referenceTime time.Time, months int) time.Time {
	year, month, day := referenceTime.Date()
	monthIndex := year*12 + int(month) - 1 - months
	targetYear := monthIndex / 12
	targetMonth := time.Month(monthIndex%12 + 1)

	if lastDay := daysInMonth(targetYear, targetMonth); day > lastDay {
		day = lastDay
	}
	hour, minute, second := referenceTime.Clock()
	return time.Date(targetYear, targetMonth, day, hour, minute, second, 0, referenceTime.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
