package models

// DailyStat is one row of the per-day status breakdown.
type DailyStat struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// SeverityStats maps severity name to the number of issues opened today.
type SeverityStats map[string]int

// AnalyticsStats is the aggregate dashboard payload.
type AnalyticsStats struct {
	TotalIssues          int            `json:"total_issues"`
	OpenIssues           int            `json:"open_issues"`
	InProgressIssues     int            `json:"in_progress_issues"`
	CompletedIssues      int            `json:"completed_issues"`
	HighPriorityIssues   int            `json:"high_priority_issues"`
	MediumPriorityIssues int            `json:"medium_priority_issues"`
	LowPriorityIssues    int            `json:"low_priority_issues"`
	RecentIssues         []Issue        `json:"recent_issues"`
	IssuesByStatus       map[string]int `json:"issues_by_status"`
	IssuesBySeverity     map[string]int `json:"issues_by_severity"`
}
