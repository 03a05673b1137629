// Package clock provides the time source, task ids, and localized stamps.
package clock

import (
	"fmt"
	"strings"
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// IDSource hands out millisecond-based ids that strictly increase,
// even when several are requested within the same millisecond.
type IDSource struct {
	clock Clock
	last  int64
}

func NewIDSource(c Clock) *IDSource {
	if c == nil {
		c = System{}
	}
	return &IDSource{clock: c}
}

// Observe records an existing id so later ids are larger.
func (s *IDSource) Observe(id int64) {
	if id > s.last {
		s.last = id
	}
}

// Next returns a fresh id.
func (s *IDSource) Next() int64 {
	id := s.clock.Now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

const (
	LocaleKorean  = "ko"
	LocaleEnglish = "en"
)

var koWeekdays = [...]string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

// Format renders t as a human-readable stamp: two-digit year, long month,
// day, long weekday and 24h hour:minute.
//
//	ko: 25년 10월 19일 일요일 14:05
//	en: Sunday, October 19, 25 at 14:05
//
// Unknown locales render as ko.
func Format(t time.Time, locale string) string {
	switch strings.ToLower(locale) {
	case LocaleEnglish, "en-us":
		return fmt.Sprintf("%s, %s %d, %02d at %02d:%02d",
			t.Weekday(), t.Month(), t.Day(), t.Year()%100, t.Hour(), t.Minute())
	default:
		return fmt.Sprintf("%02d년 %d월 %d일 %s %02d:%02d",
			t.Year()%100, int(t.Month()), t.Day(), koWeekdays[t.Weekday()], t.Hour(), t.Minute())
	}
}

// KnownLocale reports whether Format has a dedicated layout for locale.
func KnownLocale(locale string) bool {
	switch strings.ToLower(locale) {
	case LocaleKorean, "ko-kr", LocaleEnglish, "en-us":
		return true
	}
	return false
}

// Labels returns the captions shown before the created and updated stamps.
func Labels(locale string) (created, updated string) {
	switch strings.ToLower(locale) {
	case LocaleEnglish, "en-us":
		return "created", "updated"
	default:
		return "등록 시간", "마지막 수정 시간"
	}
}
