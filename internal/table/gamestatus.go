package table

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// StartedBuffer is how far past the scheduled tip a game must be before the
// default view stops showing its rows.
const StartedBuffer = 10 * time.Minute

// Status strings carry scheduled tips as "7:30 pm ET". Anything else (live
// clock, "Final", garbage) is treated as already in progress.
var scheduledTipPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(am|pm)\s*ET\s*$`)

var easternTime = loadEasternTime()

func loadEasternTime() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("ET", -5*60*60)
	}
	return loc
}

// ScheduledTip parses a game's date ("2006-01-02") and status string into its
// scheduled start. Returns false when the status does not look like a future
// tip time.
func ScheduledTip(gameDate, gameStatus string) (time.Time, bool) {
	m := scheduledTipPattern.FindStringSubmatch(gameStatus)
	if m == nil {
		return time.Time{}, false
	}

	day, err := time.ParseInLocation("2006-01-02", gameDate, easternTime)
	if err != nil {
		return time.Time{}, false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return time.Time{}, false
	}

	if strings.EqualFold(m[3], "pm") && hour != 12 {
		hour += 12
	} else if strings.EqualFold(m[3], "am") && hour == 12 {
		hour = 0
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, easternTime), true
}

// GameStarted reports whether a game should be considered in progress at the
// given instant. Unparseable statuses count as started: better to hide a row
// than to show odds for a game that is already running.
func GameStarted(gameDate, gameStatus string, now time.Time) bool {
	tip, ok := ScheduledTip(gameDate, gameStatus)
	if !ok {
		return true
	}

	return now.After(tip.Add(StartedBuffer))
}
