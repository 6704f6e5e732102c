// Package flags provides shared flag names and binding helpers for Cobra commands.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	// RemoteFlagName exposes the shared remote flag name.
	RemoteFlagName = "remote"
	// RemoteFlagUsage describes the shared remote flag purpose.
	RemoteFlagUsage = "Remote name to target"
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Preview operations without making changes"
	// NoVerifyFlagName exposes the shared no-verify flag name.
	NoVerifyFlagName = "no-verify"
	// NoVerifyFlagUsage describes the shared no-verify flag purpose.
	NoVerifyFlagUsage = "Skip pre-commit and pre-push hooks"

	choicePlaceholderPrefix  = "<"
	choicePlaceholderSuffix  = ">"
	choiceSeparatorLiteral   = "|"
	choiceUsageEmptyTemplate = "`%s`"
	choiceUsageFullTemplate  = "`%s` %s"
)

// EnsureRemoteFlag guarantees the shared remote flag is available on the command.
func EnsureRemoteFlag(command *cobra.Command, defaultValue string) {
	if command == nil {
		return
	}
	if command.Flags().Lookup(RemoteFlagName) == nil {
		command.Flags().String(RemoteFlagName, defaultValue, RemoteFlagUsage)
	}
}

// EnsureDryRunFlag guarantees the shared dry-run flag is available on the command.
func EnsureDryRunFlag(command *cobra.Command, defaultValue bool) {
	if command == nil {
		return
	}
	if command.Flags().Lookup(DryRunFlagName) == nil {
		command.Flags().Bool(DryRunFlagName, defaultValue, DryRunFlagUsage)
	}
}

// EnsureNoVerifyFlag guarantees the shared no-verify flag is available on the command.
func EnsureNoVerifyFlag(command *cobra.Command, defaultValue bool) {
	if command == nil {
		return
	}
	if command.Flags().Lookup(NoVerifyFlagName) == nil {
		command.Flags().Bool(NoVerifyFlagName, defaultValue, NoVerifyFlagUsage)
	}
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}

		displayValue := trimmedChoice
		if normalizedChoice == normalizedDefault && len(normalizedChoice) > 0 {
			displayValue = strings.ToUpper(trimmedChoice)
		}

		highlighted = append(highlighted, displayValue)
		seen[normalizedChoice] = struct{}{}
	}

	return highlighted
}
