// Package location decomposes free-text event locations into campus,
// building and room labels for display.
package location

import (
	"regexp"
	"strings"
)

// Sentinel values used when a part of the location cannot be determined.
const (
	NoCampus   = "(no campus)"
	NoBuilding = "(no building)"
	NoRoom     = "(missing)"
)

// Label is the display-ready decomposition of a raw location string.
type Label struct {
	Campus   string
	Building string
	Room     string
}

var (
	// Matches "Rm 607", "Rm. S2.330" and similar room tokens.
	roomPattern = regexp.MustCompile(`(?i)\bRm\.?\s*([A-Za-z0-9.\-]+)\b`)

	// Matches "Classroom:H937" with optional whitespace after the colon.
	classroomPattern = regexp.MustCompile(`(?i)Classroom:\s*([A-Za-z0-9.\-]+)`)
)

// Parse decomposes a raw location string. Rules are tried in order and the
// first match wins:
//
//  1. A "Rm <code>" token yields the room; the remainder is split on " - "
//     into campus and building when the separator is present.
//  2. A "Classroom:<code>" token yields the room only.
//  3. Anything else becomes the building verbatim.
//
// Unknown parts fall back to the NoCampus/NoBuilding/NoRoom sentinels.
func Parse(raw string) Label {
	label := Label{Campus: NoCampus, Building: NoBuilding, Room: NoRoom}

	loc := strings.TrimSpace(raw)
	if loc == "" {
		return label
	}

	if m := roomPattern.FindStringSubmatch(loc); m != nil {
		if room := strings.TrimSpace(m[1]); room != "" {
			label.Room = room
		}

		remainder := strings.TrimSpace(strings.Replace(loc, m[0], "", 1))
		if campus, building, ok := strings.Cut(remainder, " - "); ok {
			label.Campus = strings.TrimSpace(campus)
			label.Building = strings.TrimSpace(building)
			if label.Building == "" {
				label.Building = NoBuilding
			}
		} else if remainder != "" {
			label.Building = remainder
		}
		return label
	}

	if m := classroomPattern.FindStringSubmatch(loc); m != nil {
		if room := strings.TrimSpace(m[1]); room != "" {
			label.Room = room
		}
		return label
	}

	label.Building = loc
	return label
}
