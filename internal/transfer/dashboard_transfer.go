package transfer

// Analytics keeps figures derived from stored rows apart from simulated
// ones, so clients can tell real data from placeholders.
type Analytics struct {
	Computed  ComputedMetrics  `json:"computed"`
	Estimated EstimatedMetrics `json:"estimated"`
}

type ComputedMetrics struct {
	TotalPosts     int            `json:"total_posts"`
	PostsByStatus  map[string]int `json:"posts_by_status"`
	LinkedAccounts int            `json:"linked_accounts"`
}

// EstimatedMetrics are placeholders until real platform metrics are pulled.
// They are seeded per (user, day) so repeated calls agree within a day.
type EstimatedMetrics struct {
	Reach          int     `json:"reach"`
	Followers      int     `json:"followers"`
	Comments       int     `json:"comments"`
	EngagementRate float64 `json:"engagement_rate"`
	MonthDeltaPct  float64 `json:"month_delta_pct"`
}

type PlatformInsight struct {
	Platform   string `json:"platform"`
	PostCount  int    `json:"post_count"`
	Engagement []int  `json:"engagement"`
}
