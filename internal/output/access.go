package output

import (
	"fmt"
	"io"
	"os"

	"github.com/twiced-technology-gmbh/taskflow/internal/access"
	"github.com/twiced-technology-gmbh/taskflow/internal/board"
)

// ProjectRow pairs a project with the viewing actor's role on it.
type ProjectRow struct {
	access.Project
	Role access.Role `json:"role"`
}

// ProjectsTable renders projects with the actor's effective role.
func ProjectsTable(w io.Writer, rows []ProjectRow) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No projects found.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-38s %-20s %-16s %s", "ID", "NAME", "OWNER", "ROLE")))
	for _, r := range rows {
		fmt.Fprintf(w, "%-38s %-20s %-16s %s\n", r.ID, truncate(r.Name, 20), r.UserID, roleCell(r.Role)) //nolint:mnd // name column
	}
}

// SharesTable renders the shares granted on projects.
func SharesTable(w io.Writer, shares []access.Share) {
	if len(shares) == 0 {
		fmt.Fprintln(os.Stderr, "No shares found.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-38s %-20s %-24s %s", "ID", "PROJECT", "SHARED WITH", "ROLE")))
	for _, s := range shares {
		with := "user " + s.SharedWithUserID
		if s.TeamID != "" {
			with = "team " + s.TeamID
		}
		fmt.Fprintf(w, "%-38s %-20s %-24s %s\n", s.ID, s.ProjectID, truncate(with, 24), s.Role) //nolint:mnd // target column
	}
}

// TeamsTable renders teams and their members.
func TeamsTable(w io.Writer, d *board.Directory) {
	if len(d.Teams) == 0 {
		fmt.Fprintln(os.Stderr, "No teams found.")
		return
	}
	for i, t := range d.Teams {
		if i > 0 {
			fmt.Fprintln(w)
		}
		name := t.ID
		if t.Name != "" {
			name = t.Name + " " + dimStyle.Render("("+t.ID+")")
		}
		fmt.Fprintln(w, titleStyle.Render(name))
		for _, m := range d.MembersOf(t.ID) {
			fmt.Fprintf(w, "  %-20s %s\n", m.UserID, m.Role)
		}
	}
}

func roleCell(r access.Role) string {
	if r == access.RoleNone {
		return dimStyle.Render("--")
	}
	return labelStyle.Render(string(r))
}
