package workflow

import (
	"fmt"
	"strings"

	"github.com/opsmind/opsmind/internal/cmdb"
	"github.com/opsmind/opsmind/internal/itsm"
)

// FormatCI renders a configuration item as an indented key:value block.
func FormatCI(ci cmdb.CI) string {
	return fmt.Sprintf(`Configuration Item: %s
  ID: %s
  Type: %s
  Status: %s
  Environment: %s
  Owner: %s
  Location: %s
`,
		orUnknown(ci.Name),
		orNA(ci.ID),
		orNA(string(ci.Type)),
		orNA(ci.Status),
		orNA(ci.Environment),
		orNA(ci.Owner),
		orNA(ci.Location))
}

// FormatIncident renders an incident as an indented key:value block.
func FormatIncident(inc itsm.Incident) string {
	return fmt.Sprintf(`Incident: %s
  ID: %s
  Priority: %s
  Status: %s
  Affected CI: %s
  Assigned To: %s
  Description: %s
`,
		orUnknown(inc.Title),
		orNA(inc.ID),
		orNA(inc.Priority),
		orNA(inc.Status),
		orNA(inc.AffectedCI),
		orNA(inc.AssignedTo),
		orNA(inc.Description))
}

// FormatChange renders a change request as an indented key:value block.
func FormatChange(chg itsm.Change) string {
	affected := "N/A"
	if len(chg.AffectedCIs) > 0 {
		affected = strings.Join(chg.AffectedCIs, ", ")
	}
	return fmt.Sprintf(`Change Request: %s
  ID: %s
  Type: %s
  Status: %s
  Priority: %s
  Affected CIs: %s
  Scheduled: %s
`,
		orUnknown(chg.Title),
		orNA(chg.ID),
		orNA(chg.Type),
		orNA(chg.Status),
		orNA(chg.Priority),
		affected,
		orNA(chg.ScheduledStart))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
