package prune

import "strings"

const (
	deletedMarkerPrefixConstant  = " - [deleted]"
	remoteTokenSeparatorConstant = "/"
)

// Classification reports whether a fetch output line announces a branch
// deleted on the remote, carrying the bare branch name when it does.
type Classification struct {
	Pruned     bool
	BranchName string
}

// ClassifyFetchLine inspects one line of fetch output. A line is classified as
// pruned only when it starts with the deleted-ref marker and contains the
// remote-qualified token; the branch name is everything after the first token
// occurrence. Lines carrying the marker without the token are not actionable.
func ClassifyFetchLine(outputLine string, remoteName string) Classification {
	if !strings.HasPrefix(outputLine, deletedMarkerPrefixConstant) {
		return Classification{}
	}

	remoteToken := remoteName + remoteTokenSeparatorConstant
	tokenIndex := strings.Index(outputLine, remoteToken)
	if tokenIndex < 0 {
		return Classification{}
	}

	branchName := outputLine[tokenIndex+len(remoteToken):]
	if len(branchName) == 0 {
		return Classification{}
	}
	return Classification{Pruned: true, BranchName: branchName}
}
