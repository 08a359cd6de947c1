package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// Mention renders a user mention
func Mention(discordID int64) string {
	return fmt.Sprintf("<@%d>", discordID)
}

// ParseMention accepts <@id>, <@!id> or a bare numeric id
func ParseMention(s string) (int64, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(s, "<@"), ">")
	trimmed = strings.TrimPrefix(trimmed, "!")
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("not a user mention: %q", s)
	}
	return id, nil
}

// ParseDiscordID converts a snowflake string
func ParseDiscordID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid discord id %q: %w", s, err)
	}
	return id, nil
}
