package dto

// StatsResponse represents the global progression state in API responses
type StatsResponse struct {
	TotalXP          int    `json:"total_xp"`
	Level            int    `json:"level"`
	RequiredXP       int    `json:"required_xp"`
	TreeStage        int    `json:"tree_stage"`
	TotalCoins       int    `json:"total_coins"`
	TotalCompletions int    `json:"total_completions"`
	Advice           string `json:"advice,omitempty"`
}

// SetLevelRequest represents the request to override the current level
type SetLevelRequest struct {
	Level int `json:"level" binding:"required,min=1"`
}

// SetXPRequest represents the request to override the in-level XP
type SetXPRequest struct {
	XP int `json:"xp" binding:"min=0"`
}

// DashboardResponse represents summary metrics for the dashboard view
type DashboardResponse struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Archived       int `json:"archived"`
	CompletedToday int `json:"completed_today"`
	BestStreak     int `json:"best_streak"`
}
