package postgres

import "fmt"

// TableNames holds the environment-prefixed table names. Prefixing by
// environment (dev_, test_, prod_) lets environments share one
// database. The prefix is interpolated into SQL before it reaches the
// server, so prepared statements stay per-environment.
type TableNames struct {
	Organizations string
	Users         string
	Projects      string
	WorkItems     string
	Sprints       string
	Files         string
	FileVersions  string
	Comments      string
	Notifications string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Organizations: fmt.Sprintf("%sorganizations", prefix),
		Users:         fmt.Sprintf("%susers", prefix),
		Projects:      fmt.Sprintf("%sprojects", prefix),
		WorkItems:     fmt.Sprintf("%swork_items", prefix),
		Sprints:       fmt.Sprintf("%ssprints", prefix),
		Files:         fmt.Sprintf("%sfiles", prefix),
		FileVersions:  fmt.Sprintf("%sfile_versions", prefix),
		Comments:      fmt.Sprintf("%scomments", prefix),
		Notifications: fmt.Sprintf("%snotifications", prefix),
	}
}
