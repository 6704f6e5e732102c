package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	historyFieldSeparatorConstant       = "\t"
	historyFieldCountConstant           = 3
	malformedFieldCountTemplateConstant = "malformed history record %q: expected %d tab-separated fields"
	malformedTimestampTemplateConstant  = "malformed history record %q: invalid timestamp"
)

// CommitRecord is one parsed line of commit history.
type CommitRecord struct {
	Timestamp   int64
	AuthorName  string
	AuthorEmail string
}

// ParseCommitRecord parses a "<unix>\t<name>\t<email>" history line.
func ParseCommitRecord(historyLine string) (CommitRecord, error) {
	fields := strings.Split(historyLine, historyFieldSeparatorConstant)
	if len(fields) != historyFieldCountConstant {
		return CommitRecord{}, fmt.Errorf(malformedFieldCountTemplateConstant, historyLine, historyFieldCountConstant)
	}
	timestampSeconds, parseError := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if parseError != nil {
		return CommitRecord{}, fmt.Errorf(malformedTimestampTemplateConstant, historyLine)
	}
	return CommitRecord{
		Timestamp:   timestampSeconds,
		AuthorName:  fields[1],
		AuthorEmail: fields[2],
	}, nil
}

// AuthorStatistics holds the commit tally for one canonical author.
type AuthorStatistics struct {
	CanonicalKey string
	DisplayName  string
	CommitCount  int
}

// AggregationResult summarizes a consumed history stream.
type AggregationResult struct {
	Authors         []AuthorStatistics
	TotalCommits    int
	LatestTimestamp int64
	HasCommits      bool
}

// Aggregator tallies history lines per canonical author within a time range,
// optionally filtered by author name or email substrings.
type Aggregator struct {
	timeRange       TimeRange
	nameFilters     []string
	emailFilters    []string
	emailAliases    map[string]string
	nameToEmail     map[string]string
	tallies         map[string]int
	displayNames    map[string]string
	orderedKeys     []string
	totalCommits    int
	latestTimestamp int64
	sawCommits      bool
}

// NewAggregator builds an aggregator for the resolved range. Filters match
// case-insensitively as substrings; any match within a set passes, and both
// sets must pass.
func NewAggregator(timeRange TimeRange, nameFilters, emailFilters []string) *Aggregator {
	return &Aggregator{
		timeRange:    timeRange,
		nameFilters:  lowercaseAll(nameFilters),
		emailFilters: lowercaseAll(emailFilters),
		emailAliases: map[string]string{},
		nameToEmail:  map[string]string{},
		tallies:      map[string]int{},
		displayNames: map[string]string{},
	}
}

// ConsumeLine parses and tallies one history line.
func (aggregator *Aggregator) ConsumeLine(historyLine string) error {
	commitRecord, parseError := ParseCommitRecord(historyLine)
	if parseError != nil {
		return parseError
	}
	aggregator.consumeRecord(commitRecord)
	return nil
}

func (aggregator *Aggregator) consumeRecord(commitRecord CommitRecord) {
	if commitRecord.Timestamp < aggregator.timeRange.StartSeconds || commitRecord.Timestamp > aggregator.timeRange.EndSeconds {
		return
	}
	if !matchesAnyFilter(commitRecord.AuthorName, aggregator.nameFilters) {
		return
	}
	if !matchesAnyFilter(commitRecord.AuthorEmail, aggregator.emailFilters) {
		return
	}

	canonicalKey := CanonicalizeAuthor(commitRecord.AuthorEmail, commitRecord.AuthorName, aggregator.emailAliases, aggregator.nameToEmail)
	if _, tallied := aggregator.tallies[canonicalKey]; !tallied {
		aggregator.orderedKeys = append(aggregator.orderedKeys, canonicalKey)
		aggregator.displayNames[canonicalKey] = commitRecord.AuthorName
	}
	aggregator.tallies[canonicalKey]++
	aggregator.totalCommits++
	if !aggregator.sawCommits || commitRecord.Timestamp > aggregator.latestTimestamp {
		aggregator.latestTimestamp = commitRecord.Timestamp
	}
	aggregator.sawCommits = true
}

// Result returns the tallies in first-seen author order.
func (aggregator *Aggregator) Result() AggregationResult {
	authors := make([]AuthorStatistics, 0, len(aggregator.orderedKeys))
	for _, canonicalKey := range aggregator.orderedKeys {
		authors = append(authors, AuthorStatistics{
			CanonicalKey: canonicalKey,
			DisplayName:  aggregator.displayNames[canonicalKey],
			CommitCount:  aggregator.tallies[canonicalKey],
		})
	}
	return AggregationResult{
		Authors:         authors,
		TotalCommits:    aggregator.totalCommits,
		LatestTimestamp: aggregator.latestTimestamp,
		HasCommits:      aggregator.sawCommits,
	}
}

// SortAuthorStatistics orders authors by commit count descending, breaking
// ties by display name.
func SortAuthorStatistics(authors []AuthorStatistics) {
	sort.Slice(authors, func(firstIndex, secondIndex int) bool {
		if authors[firstIndex].CommitCount != authors[secondIndex].CommitCount {
			return authors[firstIndex].CommitCount > authors[secondIndex].CommitCount
		}
		return authors[firstIndex].DisplayName < authors[secondIndex].DisplayName
	})
}

func matchesAnyFilter(candidateValue string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	loweredCandidate := strings.ToLower(candidateValue)
	for _, filterValue := range filters {
		if strings.Contains(loweredCandidate, filterValue) {
			return true
		}
	}
	return false
}

func lowercaseAll(values []string) []string {
	lowered := make([]string, 0, len(values))
	for _, value := range values {
		trimmedValue := strings.TrimSpace(value)
		if len(trimmedValue) == 0 {
			continue
		}
		lowered = append(lowered, strings.ToLower(trimmedValue))
	}
	return lowered
}
