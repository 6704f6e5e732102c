package stats

// CanonicalizeAuthor folds an author identity into a canonical email key.
// Commits sharing an email always merge; commits sharing a display name merge
// into the key of the first email seen under that name, so an author who
// commits under several addresses is counted once. The alias maps carry the
// learned associations between calls and must be reused across a run.
func CanonicalizeAuthor(authorEmail, authorName string, emailAliases, nameToEmail map[string]string) string {
	if canonicalKey, emailKnown := emailAliases[authorEmail]; emailKnown {
		return canonicalKey
	}

	if firstEmail, nameKnown := nameToEmail[authorName]; nameKnown {
		canonicalKey, aliasKnown := emailAliases[firstEmail]
		if !aliasKnown {
			canonicalKey = firstEmail
		}
		emailAliases[authorEmail] = canonicalKey
		return canonicalKey
	}

	emailAliases[authorEmail] = authorEmail
	nameToEmail[authorName] = authorEmail
	return authorEmail
}
