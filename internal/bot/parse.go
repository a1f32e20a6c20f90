package bot

import "regexp"

// Command patterns mirror what the bot reacts to in a group chat: slash
// commands with an optional @botname suffix, and bare +/- votes with an
// optional mentioned handle.
var (
	voteCommandPattern = regexp.MustCompile(`^/(up|down)(?:@\w+)?(?: +@(\w+))?$`)
	voteSymbolPattern  = regexp.MustCompile(`^(\+{1,2}|-{1,2})(?: +@(\w+))?$`)

	chatsPattern     = regexp.MustCompile(`^/chats(@\w+)?$`)
	helpPattern      = regexp.MustCompile(`^/help(@\w+)?$`)
	currencyPattern  = regexp.MustCompile(`^/currency(@\w+)?$`)
	changelogPattern = regexp.MustCompile(`^/changelog(@\w+)?$`)
	upworkPattern    = regexp.MustCompile(`^/upwork(@\w+)?$`)
)

// matchVote extracts the direction alias and the optional mentioned handle
// from a vote command. ok is false when the text is not a vote at all.
func matchVote(text string) (alias, handle string, ok bool) {
	for _, pattern := range []*regexp.Regexp{voteCommandPattern, voteSymbolPattern} {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}
