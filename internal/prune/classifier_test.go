package prune

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyFetchLine(t *testing.T) {
	testCases := []struct {
		name               string
		outputLine         string
		remoteName         string
		expectedPruned     bool
		expectedBranchName string
	}{
		{
			name:               "DeletedBranchReference",
			outputLine:         " - [deleted]         (none)     -> origin/command-push",
			remoteName:         "origin",
			expectedPruned:     true,
			expectedBranchName: "command-push",
		},
		{
			name:               "DeletedBranchWithSlashes",
			outputLine:         " - [deleted]         (none)     -> origin/feature/login",
			remoteName:         "origin",
			expectedPruned:     true,
			expectedBranchName: "feature/login",
		},
		{
			name:           "DeletedReferenceForOtherRemote",
			outputLine:     " - [deleted]         (none)     -> origin/command-push",
			remoteName:     "upstream",
			expectedPruned: false,
		},
		{
			name:           "DeletedMarkerWithoutRemoteToken",
			outputLine:     " - [deleted]         (none)     -> command-push",
			remoteName:     "origin",
			expectedPruned: false,
		},
		{
			name:           "DeletedMarkerWithEmptyBranchName",
			outputLine:     " - [deleted]         (none)     -> origin/",
			remoteName:     "origin",
			expectedPruned: false,
		},
		{
			name:           "RemoteProgressLine",
			outputLine:     "remote: Enumerating objects: 81, done.",
			remoteName:     "origin",
			expectedPruned: false,
		},
		{
			name:           "RemoteCompressionLine",
			outputLine:     "remote: Compressing objects: 100% (29/29), done.",
			remoteName:     "origin",
			expectedPruned: false,
		},
		{
			name:           "UnpackingLine",
			outputLine:     "Unpacking objects: 100% (81/81), 22.90 KiB | 199.00 KiB/s, done.",
			remoteName:     "origin",
			expectedPruned: false,
		},
		{
			name:           "FetchSourceLine",
			outputLine:     "From github.com:acme/widgets",
			remoteName:     "origin",
			expectedPruned: false,
		},
		{
			name:           "FastForwardLine",
			outputLine:     "   e7d1e6e..e53938f  main       -> origin/main",
			remoteName:     "origin",
			expectedPruned: false,
		},
		{
			name:           "NewTagLine",
			outputLine:     " * [new tag]         widgets-0.2.0 -> widgets-0.2.0",
			remoteName:     "origin",
			expectedPruned: false,
		},
		{
			name:           "EmptyLine",
			outputLine:     "",
			remoteName:     "origin",
			expectedPruned: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			classification := ClassifyFetchLine(testCase.outputLine, testCase.remoteName)
			require.Equal(t, testCase.expectedPruned, classification.Pruned)
			require.Equal(t, testCase.expectedBranchName, classification.BranchName)
		})
	}
}
