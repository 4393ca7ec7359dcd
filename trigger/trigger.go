// Package trigger decides when the configured order time has come. It holds
// no state: the next due instant is re-derived from configuration plus the
// current time on every call.
package trigger

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SkipGrace is how far past today's daily time we still consider "today" as
// the trigger day. Beyond it the evaluator rolls to the next enabled day,
// which also drives the engine's daily re-arm.
const SkipGrace = 10 * time.Second

// Mode selects between a one-time trigger and a recurring daily one.
type Mode int

const (
	OneShot Mode = iota
	Daily
)

var modeNames = map[Mode]string{
	OneShot: "oneshot",
	Daily:   "daily",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

func (m Mode) MarshalText() ([]byte, error) {
	s, ok := modeNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown trigger mode %d", int(m))
	}
	return []byte(s), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	for mode, name := range modeNames {
		if name == string(text) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown trigger mode %q", string(text))
}

func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	return m.UnmarshalText([]byte(value.Value))
}

// TimeRef selects which clock "now" is read from. It is applied uniformly;
// one evaluation never mixes sources.
type TimeRef int

const (
	RefVenue TimeRef = iota
	RefLocal
)

var refNames = map[TimeRef]string{
	RefVenue: "venue",
	RefLocal: "local",
}

func (r TimeRef) String() string {
	if s, ok := refNames[r]; ok {
		return s
	}
	return "unknown"
}

func (r TimeRef) MarshalText() ([]byte, error) {
	s, ok := refNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown time reference %d", int(r))
	}
	return []byte(s), nil
}

func (r *TimeRef) UnmarshalText(text []byte) error {
	for ref, name := range refNames {
		if name == string(text) {
			*r = ref
			return nil
		}
	}
	return fmt.Errorf("unknown time reference %q", string(text))
}

func (r *TimeRef) UnmarshalYAML(value *yaml.Node) error {
	return r.UnmarshalText([]byte(value.Value))
}

// WeekdayMask is a bit set over time.Weekday (bit 0 = Sunday).
type WeekdayMask uint8

func (m WeekdayMask) Enabled(d time.Weekday) bool {
	return m&(1<<uint(d)) != 0
}

func (m WeekdayMask) With(d time.Weekday) WeekdayMask {
	return m | 1<<uint(d)
}

func (m WeekdayMask) Empty() bool {
	return m == 0
}

// Weekdays is the Monday-through-Friday mask.
const Weekdays = WeekdayMask(1<<time.Monday | 1<<time.Tuesday | 1<<time.Wednesday |
	1<<time.Thursday | 1<<time.Friday)

var dayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

func (m WeekdayMask) String() string {
	var days []string
	for d := time.Sunday; d <= time.Saturday; d++ {
		if m.Enabled(d) {
			days = append(days, strings.ToLower(d.String()[:3]))
		}
	}
	return strings.Join(days, ",")
}

func (m WeekdayMask) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *WeekdayMask) UnmarshalText(text []byte) error {
	var mask WeekdayMask
	for _, part := range strings.Split(string(text), ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		d, ok := dayNames[part]
		if !ok {
			return fmt.Errorf("unknown weekday %q", part)
		}
		mask = mask.With(d)
	}
	*m = mask
	return nil
}

func (m *WeekdayMask) UnmarshalYAML(value *yaml.Node) error {
	return m.UnmarshalText([]byte(value.Value))
}

// Spec is the trigger configuration.
type Spec struct {
	Mode Mode
	Ref  TimeRef

	// OneShot.
	At time.Time

	// Daily.
	Hour     int
	Minute   int
	Second   int
	Weekdays WeekdayMask
}

// DueTime returns the next due instant for the given reference "now".
//
// OneShot triggers are fixed. Daily triggers build today's H:M:S on now's
// date; if that time passed more than SkipGrace ago the current day is
// skipped, then up to seven days are scanned (inclusive, since the next
// enabled day may be the same weekday) for the first enabled weekday.
func (s Spec) DueTime(now time.Time) time.Time {
	if s.Mode == OneShot {
		return s.At
	}

	target := time.Date(now.Year(), now.Month(), now.Day(),
		s.Hour, s.Minute, s.Second, 0, now.Location())

	skipToday := now.Sub(target) > SkipGrace
	for i := 0; i <= 7; i, target = i+1, target.AddDate(0, 0, 1) {
		if i == 0 && skipToday {
			continue
		}
		if s.Weekdays.Enabled(target.Weekday()) {
			break
		}
	}
	return target
}

// IsDue reports whether the trigger has fired: the difference between now and
// the due time must be strictly positive.
func (s Spec) IsDue(now time.Time) bool {
	return now.Sub(s.DueTime(now)) > 0
}
