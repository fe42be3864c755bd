// Package timeparse turns human time phrases ("now", "tomorrow 12:00", "in
// 10s", "sunrise+30m", weekday names, strict HH:MM:SS) into a small Result
// sum type: an absolute DateTime, a bare Date, or a bare TimeOfDay. Every
// Result retains its source phrase so it can be Reset — re-parsed against a
// fresh "now" to slide forward to its next occurrence, the way "tomorrow
// 12:00" reparsed a day later becomes the day after.
//
// Sunrise/sunset phrases are resolved with github.com/nathan-osman/go-sunrise
// against a process-wide (latitude, longitude) set once at startup.
package timeparse
