package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	sunrise "github.com/nathan-osman/go-sunrise"
)

var (
	timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	inPhrasePattern  = regexp.MustCompile(`^in\s+(\d+)\s*(s|sec|second|seconds|m|min|minute|minutes|h|hour|hours|d|day|days)$`)
	agoPhrasePattern = regexp.MustCompile(`^(?:a|an|(\d+))\s*(s|sec|second|seconds|m|min|minute|minutes|h|hour|hours|d|day|days)\s+ago$`)
	sunPhrasePattern = regexp.MustCompile(`^(sunrise|sunset)\s*([+-]\s*\d+\s*\w+)?$`)

	weekdays = map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
		"saturday": time.Saturday,
	}
)

// Parse interprets phrase against now, returning the Result it denotes.
// Accepted shapes: a strict time-of-day (HH:MM[:SS]), a natural-language
// phrase ("now", "today", "yesterday 12:00", "tomorrow", "in 10s", "a
// second ago", weekday names), or a sunrise/sunset expression with an
// optional offset.
func Parse(phrase string, now time.Time) (Result, error) {
	trimmed := strings.TrimSpace(phrase)
	lower := strings.ToLower(trimmed)

	if m := timeOfDayPattern.FindStringSubmatch(lower); m != nil {
		return parseTimeOfDay(trimmed, m)
	}

	if sunPhrasePattern.MatchString(lower) {
		return parseSunPhrase(trimmed, lower, now)
	}

	return parseNaturalLanguage(trimmed, lower, now)
}

func parseTimeOfDay(source string, m []string) (Result, error) {
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return nil, fmt.Errorf("timeparse: time-of-day %q out of range", source)
	}
	return TimeOfDay{source: source, hour: hour, minute: minute, second: second}, nil
}

func parseNaturalLanguage(source, lower string, now time.Time) (Result, error) {
	switch {
	case lower == "now":
		return DateTime{source: source, at: now}, nil
	case lower == "today":
		return Date{source: source, day: midnight(now)}, nil
	case lower == "yesterday":
		return Date{source: source, day: midnight(now.AddDate(0, 0, -1))}, nil
	case lower == "tomorrow":
		return Date{source: source, day: midnight(now.AddDate(0, 0, 1))}, nil
	}

	if rest, ok := splitDayWord(lower, "yesterday"); ok {
		return parseDayWithTime(source, now.AddDate(0, 0, -1), rest)
	}
	if rest, ok := splitDayWord(lower, "tomorrow"); ok {
		return parseDayWithTime(source, now.AddDate(0, 0, 1), rest)
	}
	if rest, ok := splitDayWord(lower, "today"); ok {
		return parseDayWithTime(source, now, rest)
	}

	for name, wd := range weekdays {
		if rest, ok := splitDayWord(lower, name); ok {
			day := nextWeekday(now, wd)
			return parseDayWithTime(source, day, rest)
		}
		if lower == name {
			return Date{source: source, day: midnight(nextWeekday(now, wd))}, nil
		}
	}

	if m := inPhrasePattern.FindStringSubmatch(lower); m != nil {
		d, err := phraseDuration(m[1], m[2])
		if err != nil {
			return nil, err
		}
		return DateTime{source: source, at: now.Add(d)}, nil
	}

	if m := agoPhrasePattern.FindStringSubmatch(lower); m != nil {
		count := m[1]
		if count == "" {
			count = "1"
		}
		d, err := phraseDuration(count, m[2])
		if err != nil {
			return nil, err
		}
		return DateTime{source: source, at: now.Add(-d)}, nil
	}

	return nil, fmt.Errorf("timeparse: unrecognized phrase %q", source)
}

// splitDayWord reports whether lower begins with word and returns the
// trimmed remainder (e.g. "tomorrow 12:00" with word "tomorrow" -> "12:00").
func splitDayWord(lower, word string) (string, bool) {
	if lower == word {
		return "", false // handled by the exact-match branches above
	}
	if !strings.HasPrefix(lower, word+" ") {
		return "", false
	}
	return strings.TrimSpace(lower[len(word):]), true
}

func parseDayWithTime(source string, day time.Time, rest string) (Result, error) {
	if rest == "" {
		return Date{source: source, day: midnight(day)}, nil
	}
	m := timeOfDayPattern.FindStringSubmatch(rest)
	if m == nil {
		return nil, fmt.Errorf("timeparse: unrecognized time-of-day suffix in %q", source)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, day.Location())
	return DateTime{source: source, at: at}, nil
}

func nextWeekday(now time.Time, target time.Weekday) time.Time {
	offset := (int(target) - int(now.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return now.AddDate(0, 0, offset)
}

func phraseDuration(countStr, unit string) (time.Duration, error) {
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return 0, fmt.Errorf("timeparse: bad count %q: %w", countStr, err)
	}
	switch unit {
	case "s", "sec", "second", "seconds":
		return time.Duration(count) * time.Second, nil
	case "m", "min", "minute", "minutes":
		return time.Duration(count) * time.Minute, nil
	case "h", "hour", "hours":
		return time.Duration(count) * time.Hour, nil
	case "d", "day", "days":
		return time.Duration(count) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("timeparse: unknown unit %q", unit)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseSunPhrase resolves "sunrise"/"sunset" plus an optional signed
// duration offset. If today's sun event has already passed, it rolls
// forward one day before applying the offset.
func parseSunPhrase(source, lower string, now time.Time) (Result, error) {
	m := sunPhrasePattern.FindStringSubmatch(lower)
	event := m[1]
	offsetPhrase := strings.ReplaceAll(m[2], " ", "")

	lat, long, ok := currentLocation()
	if !ok {
		return nil, fmt.Errorf("timeparse: %q requires a configured location", source)
	}

	sunInstant := func(day time.Time) time.Time {
		sr, ss := sunrise.SunriseSunset(lat, long, day.Year(), day.Month(), day.Day())
		if event == "sunrise" {
			return sr.In(now.Location())
		}
		return ss.In(now.Location())
	}

	at := sunInstant(now)
	if now.After(at) {
		at = sunInstant(now.AddDate(0, 0, 1))
	}

	if offsetPhrase != "" {
		sign := time.Duration(1)
		if offsetPhrase[0] == '-' {
			sign = -1
		}
		offsetPhrase = strings.TrimLeft(offsetPhrase, "+-")
		d, err := time.ParseDuration(normalizeDurationUnits(offsetPhrase))
		if err != nil {
			return nil, fmt.Errorf("timeparse: bad offset in %q: %w", source, err)
		}
		at = at.Add(sign * d)
	}

	return DateTime{source: source, at: at}, nil
}

// normalizeDurationUnits maps the phrase-style unit suffixes onto the ones
// time.ParseDuration accepts (e.g. "30min" -> "30m").
func normalizeDurationUnits(s string) string {
	replacer := strings.NewReplacer(
		"hours", "h", "hour", "h",
		"minutes", "m", "minute", "m", "min", "m",
		"seconds", "s", "second", "s", "sec", "s",
	)
	return replacer.Replace(s)
}
