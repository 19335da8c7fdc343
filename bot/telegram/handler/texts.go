package handler

import "strings"

var mdV2Replacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(",
	"\\(", ")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>",
	"#", "\\#", "+", "\\+", "-", "\\-", "=", "\\=", "|",
	"\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

var (
	aboutText = `*LinkCleanBot*
Version: %s
Commit: %s

	\[Build time\] %s
	\[Go\] %s
	\[Platform\] %s
	\[Tracking params\] %d`
	helpText = "*LinkCleanBot*\n" +
		"Removes tracking parameters \\(utm\\_\\*, fbclid, gclid, …\\) from links\\.\n\n" +
		"Send or forward a message with links and I reply with clean copies\\.\n\n" +
		"`/clean` \\- reply to a message to clean its links privately\n" +
		"`/clean` \\<text\\> \\- clean the links in the text\n" +
		"`/about` \\- build information"
	scanReplyHeader   = "Here are the cleaned links without tracking:"
	cleanedLinksTitle = "Cleaned links:"
	openCleanedLink   = "Open Cleaned Link"
	noURLsFound       = "No URLs found in the message."
	nothingToClean    = "No tracking parameters found to clean."
	cleanUsage        = "Reply to a message with /clean, or send /clean followed by the text to clean."
	openPrivateChat   = "I could not message you privately. Open a private chat with me, press Start, then try /clean again."
)
