package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gitwhisk/gitwhisk/internal/execshell"
	"github.com/gitwhisk/gitwhisk/internal/progress"
)

const (
	gitLogSubcommandConstant          = "log"
	gitFirstParentFlagConstant        = "--first-parent"
	gitHistoryFormatFlagConstant      = "--pretty=format:%at%x09%an%x09%ae"
	gitSinceFlagTemplateConstant      = "--since=@%d"
	gitUntilFlagTemplateConstant      = "--until=@%d"
	gitExecutorMissingMessageConstant = "git executor not configured"
	logFailureTemplateConstant        = "git log failed: %w"
	meterLabelConstant                = "Reading commit history"
	summaryTemplateConstant           = "Commit history from %s to %s: %d commits by %d authors\n"
	noCommitsTemplateConstant         = "No commits from %s to %s\n"
	unboundedEndLabelConstant         = "now"
	defaultTopAuthorsConstant         = 10
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor streams git output line by line for history aggregation.
type GitExecutor interface {
	StreamGit(executionContext context.Context, details execshell.CommandDetails, lineHandler execshell.LineHandler) (execshell.ExecutionResult, error)
}

// GraphRenderer turns labeled counts into display lines.
type GraphRenderer interface {
	Render(entries []GraphEntry) []string
}

// Dependencies carries the collaborators required by the statistics service.
type Dependencies struct {
	GitExecutor GitExecutor
	// Renderer overrides the default bar renderer. When set, the per-call
	// graph width option is ignored in favor of the renderer's own width.
	Renderer GraphRenderer
	Output   io.Writer
	Errors   io.Writer
}

// Service aggregates commit history for a repository and renders the result.
type Service struct {
	gitExecutor GitExecutor
	renderer    GraphRenderer
	output      io.Writer
	errorOutput io.Writer
}

// NewService validates the dependencies and constructs a statistics service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}
	errorOutput := dependencies.Errors
	if errorOutput == nil {
		errorOutput = io.Discard
	}
	return &Service{
		gitExecutor: dependencies.GitExecutor,
		renderer:    dependencies.Renderer,
		output:      output,
		errorOutput: errorOutput,
	}, nil
}

// Options configures a single statistics run.
type Options struct {
	RepositoryPath string
	Specification  RangeSpecification
	TopAuthors     int
	NameFilters    []string
	EmailFilters   []string
	GraphWidth     int
	// ReferenceTime anchors relative window resolution; the zero value means
	// the current time.
	ReferenceTime time.Time
}

// Outcome reports the aggregated window and the rendered author selection.
type Outcome struct {
	TotalCommits int
	AuthorCount  int
	StartLabel   string
	EndLabel     string
	TopAuthors   []AuthorStatistics
}

// Execute resolves the time range, streams first-parent history through the
// aggregator, and prints the summary plus the per-author graph. Validation
// failures surface before git is invoked.
func (service *Service) Execute(executionContext context.Context, options Options) (Outcome, error) {
	referenceTime := options.ReferenceTime
	if referenceTime.IsZero() {
		referenceTime = time.Now()
	}

	resolvedRange, rangeError := ResolveTimeRange(referenceTime, options.Specification)
	if rangeError != nil {
		return Outcome{}, rangeError
	}

	topAuthors := options.TopAuthors
	if topAuthors < 1 {
		topAuthors = defaultTopAuthorsConstant
	}

	aggregator := NewAggregator(resolvedRange, options.NameFilters, options.EmailFilters)
	var recordError error
	lineHandler := func(outputLine string) error {
		if consumeError := aggregator.ConsumeLine(outputLine); consumeError != nil {
			recordError = consumeError
			return consumeError
		}
		return nil
	}

	meterGuard := progress.NewMeter(service.errorOutput, meterLabelConstant).Start()
	defer meterGuard.Stop()

	_, streamError := service.gitExecutor.StreamGit(executionContext, execshell.CommandDetails{
		Arguments:        buildHistoryArguments(resolvedRange),
		WorkingDirectory: options.RepositoryPath,
	}, lineHandler)

	// Clear the indicator line before any results are printed.
	meterGuard.Stop()

	if recordError != nil {
		return Outcome{}, recordError
	}
	if streamError != nil {
		return Outcome{}, fmt.Errorf(logFailureTemplateConstant, streamError)
	}

	aggregation := aggregator.Result()
	endLabel := resolvedRange.EndLabel
	if resolvedRange.EndIsLatest {
		endLabel = unboundedEndLabelConstant
		if aggregation.HasCommits {
			endLabel = time.Unix(aggregation.LatestTimestamp, 0).In(referenceTime.Location()).Format(dateLayoutConstant)
		}
	}

	if !aggregation.HasCommits {
		fmt.Fprintf(service.output, noCommitsTemplateConstant, resolvedRange.StartLabel, endLabel)
		return Outcome{StartLabel: resolvedRange.StartLabel, EndLabel: endLabel}, nil
	}

	SortAuthorStatistics(aggregation.Authors)
	topSelection := aggregation.Authors
	if len(topSelection) > topAuthors {
		topSelection = topSelection[:topAuthors]
	}

	graphEntries := make([]GraphEntry, 0, len(topSelection))
	for _, authorStatistics := range topSelection {
		graphEntries = append(graphEntries, GraphEntry{Label: authorStatistics.DisplayName, Count: authorStatistics.CommitCount})
	}

	fmt.Fprintf(service.output, summaryTemplateConstant, resolvedRange.StartLabel, endLabel, aggregation.TotalCommits, len(aggregation.Authors))
	for _, graphLine := range service.resolveRenderer(options.GraphWidth).Render(graphEntries) {
		fmt.Fprintln(service.output, graphLine)
	}

	return Outcome{
		TotalCommits: aggregation.TotalCommits,
		AuthorCount:  len(aggregation.Authors),
		StartLabel:   resolvedRange.StartLabel,
		EndLabel:     endLabel,
		TopAuthors:   topSelection,
	}, nil
}

func (service *Service) resolveRenderer(graphWidth int) GraphRenderer {
	if service.renderer != nil {
		return service.renderer
	}
	return NewRenderer(graphWidth)
}

func buildHistoryArguments(resolvedRange TimeRange) []string {
	arguments := []string{gitLogSubcommandConstant, gitFirstParentFlagConstant, gitHistoryFormatFlagConstant}
	if resolvedRange.StartSeconds != math.MinInt64 {
		arguments = append(arguments, fmt.Sprintf(gitSinceFlagTemplateConstant, resolvedRange.StartSeconds))
	}
	if resolvedRange.EndSeconds != math.MaxInt64 {
		arguments = append(arguments, fmt.Sprintf(gitUntilFlagTemplateConstant, resolvedRange.EndSeconds))
	}
	return arguments
}
