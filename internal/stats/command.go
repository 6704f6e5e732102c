package stats

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitwhisk/gitwhisk/internal/dependencies"
)

const (
	statsCommandUseConstant               = "stats"
	statsCommandShortDescriptionConstant  = "Show commit counts per author"
	statsCommandLongDescriptionConstant   = "stats aggregates first-parent commit history into per-author commit counts over a time window and renders them as a bar chart."
	daysFlagNameConstant                  = "days"
	daysFlagDescriptionConstant           = "Count commits from the last N days"
	weeksFlagNameConstant                 = "weeks"
	weeksFlagDescriptionConstant          = "Count commits from the last N weeks"
	monthsFlagNameConstant                = "months"
	monthsFlagDescriptionConstant         = "Count commits from the last N months"
	fromFlagNameConstant                  = "from"
	fromFlagDescriptionConstant           = "Count commits starting at this date (YYYY-MM-DD)"
	toFlagNameConstant                    = "to"
	toFlagDescriptionConstant             = "Count commits up to this date (YYYY-MM-DD)"
	topFlagNameConstant                   = "top"
	topFlagDescriptionConstant            = "Number of authors to display"
	nameFilterFlagNameConstant            = "name"
	nameFilterFlagDescriptionConstant     = "Count only authors whose name contains this value (repeatable)"
	emailFilterFlagNameConstant           = "email"
	emailFilterFlagDescriptionConstant    = "Count only authors whose email contains this value (repeatable)"
	topTooSmallMessageConstant            = "--top must be at least 1"
	commandExecutionErrorTemplateConstant = "statistics failed: %w"
)

var errTopTooSmall = errors.New(topTooSmallMessageConstant)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the statistics command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  GitExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	WorkingDirectory             string
}

// Build constructs the cobra command for commit statistics.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   statsCommandUseConstant,
		Short: statsCommandShortDescriptionConstant,
		Long:  statsCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().Int(daysFlagNameConstant, 0, daysFlagDescriptionConstant)
	command.Flags().Int(weeksFlagNameConstant, 0, weeksFlagDescriptionConstant)
	command.Flags().Int(monthsFlagNameConstant, 0, monthsFlagDescriptionConstant)
	command.Flags().String(fromFlagNameConstant, "", fromFlagDescriptionConstant)
	command.Flags().String(toFlagNameConstant, "", toFlagDescriptionConstant)
	command.Flags().Int(topFlagNameConstant, defaults.TopAuthors, topFlagDescriptionConstant)
	command.Flags().StringArray(nameFilterFlagNameConstant, nil, nameFilterFlagDescriptionConstant)
	command.Flags().StringArray(emailFilterFlagNameConstant, nil, emailFilterFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceCreationError := NewService(Dependencies{
		GitExecutor: gitExecutor,
		Output:      command.OutOrStdout(),
		Errors:      command.ErrOrStderr(),
	})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	_, executionError := service.Execute(command.Context(), options)
	if executionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, executionError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, error) {
	configuration := builder.resolveConfiguration()

	topAuthors := configuration.TopAuthors
	if command.Flags().Changed(topFlagNameConstant) {
		flagValue, flagError := command.Flags().GetInt(topFlagNameConstant)
		if flagError != nil {
			return Options{}, flagError
		}
		if flagValue < 1 {
			return Options{}, errTopTooSmall
		}
		topAuthors = flagValue
	}

	fromDate, fromError := command.Flags().GetString(fromFlagNameConstant)
	if fromError != nil {
		return Options{}, fromError
	}
	toDate, toError := command.Flags().GetString(toFlagNameConstant)
	if toError != nil {
		return Options{}, toError
	}
	daysValue, daysError := command.Flags().GetInt(daysFlagNameConstant)
	if daysError != nil {
		return Options{}, daysError
	}
	weeksValue, weeksError := command.Flags().GetInt(weeksFlagNameConstant)
	if weeksError != nil {
		return Options{}, weeksError
	}
	monthsValue, monthsError := command.Flags().GetInt(monthsFlagNameConstant)
	if monthsError != nil {
		return Options{}, monthsError
	}
	nameFilters, nameFiltersError := command.Flags().GetStringArray(nameFilterFlagNameConstant)
	if nameFiltersError != nil {
		return Options{}, nameFiltersError
	}
	emailFilters, emailFiltersError := command.Flags().GetStringArray(emailFilterFlagNameConstant)
	if emailFiltersError != nil {
		return Options{}, emailFiltersError
	}

	specification := RangeSpecification{
		FromDate: fromDate,
		ToDate:   toDate,
		Days:     CountSpecifier{Value: daysValue, Provided: command.Flags().Changed(daysFlagNameConstant)},
		Weeks:    CountSpecifier{Value: weeksValue, Provided: command.Flags().Changed(weeksFlagNameConstant)},
		Months:   CountSpecifier{Value: monthsValue, Provided: command.Flags().Changed(monthsFlagNameConstant)},
	}

	return Options{
		RepositoryPath: builder.WorkingDirectory,
		Specification:  specification,
		TopAuthors:     topAuthors,
		NameFilters:    nameFilters,
		EmailFilters:   emailFilters,
		GraphWidth:     configuration.GraphWidth,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}
	return dependencies.ResolveGitExecutor(logger, builder.humanReadableLogging())
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}
