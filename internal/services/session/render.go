package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/squadkit/squadbot/internal/models"
)

// ButtonKind identifies a session action button.
type ButtonKind string

const (
	ButtonJoin  ButtonKind = "join"
	ButtonLeave ButtonKind = "leave"
	ButtonInfo  ButtonKind = "info"
	ButtonEnd   ButtonKind = "end"
)

const (
	scheduledColor = 0x5865F2
	liveColor      = 0x57F287

	// maxRosterNames caps how many participants are listed by name.
	maxRosterNames = 10
)

// DisplaySpec is a platform-neutral description of a session message.
type DisplaySpec struct {
	Title       string
	Description string

	// Live is derived from ScheduledAt vs now, never stored
	Live bool

	Color   int
	Fields  []*DisplayField
	Buttons []*DisplayButton
}

// DisplayField is a labelled value on the session message
type DisplayField struct {
	Name   string
	Value  string
	Inline bool
}

// DisplayButton is an action button on the session message
type DisplayButton struct {
	Kind      ButtonKind
	Label     string
	SessionID string
	Danger    bool
}

// RenderSession builds the display spec for a session. It is a pure function
// of the record and the current time.
func RenderSession(sess *models.Session, now time.Time) *DisplaySpec {
	live := sess.IsLive(now)

	spec := &DisplaySpec{
		Title:       fmt.Sprintf("🎮 %s", sess.Activity),
		Description: sess.Description,
		Live:        live,
		Color:       scheduledColor,
	}

	when := fmt.Sprintf("<t:%d:t> (<t:%d:R>)", sess.ScheduledAt.Unix(), sess.ScheduledAt.Unix())
	status := "Scheduled"
	if live {
		spec.Color = liveColor
		when = "Happening now"
		status = "🔴 Live"
	}

	spec.Fields = []*DisplayField{
		{Name: "Status", Value: status, Inline: true},
		{Name: "When", Value: when, Inline: true},
		{Name: "Host", Value: fmt.Sprintf("<@%s>", sess.HostID), Inline: true},
		{
			Name:  fmt.Sprintf("Players (%d)", len(sess.Participants)),
			Value: renderRoster(sess.Participants),
		},
	}

	spec.Buttons = []*DisplayButton{
		{Kind: ButtonJoin, Label: "Join", SessionID: sess.ID},
		{Kind: ButtonLeave, Label: "Leave", SessionID: sess.ID},
		{Kind: ButtonInfo, Label: "Info", SessionID: sess.ID},
		{Kind: ButtonEnd, Label: "End", SessionID: sess.ID, Danger: true},
	}

	return spec
}

// renderRoster lists participants in join order, truncated to a name budget.
func renderRoster(participants []*models.Participant) string {
	if len(participants) == 0 {
		return "Nobody yet"
	}

	var lines []string
	for i, p := range participants {
		if i == maxRosterNames {
			lines = append(lines, fmt.Sprintf("…and %d more", len(participants)-maxRosterNames))
			break
		}
		name := p.DisplayName
		if p.IsHost {
			name += " 👑"
		}
		lines = append(lines, name)
	}
	return strings.Join(lines, "\n")
}
