package progress

// UserStats is the single global progression record. It lives in one row
// (id = 0) and is mutated only through the Service.
type UserStats struct {
	ID               int `gorm:"primaryKey" json:"id"`
	TotalXP          int `gorm:"column:total_xp;default:0;not null" json:"total_xp"`
	Level            int `gorm:"default:1;not null" json:"level"`
	TreeStage        int `gorm:"default:1;not null" json:"tree_stage"`
	TotalCoins       int `gorm:"default:0;not null" json:"total_coins"`
	TotalCompletions int `gorm:"default:0;not null" json:"total_completions"`
}

// TableName specifies the table name for the UserStats model
func (UserStats) TableName() string {
	return "user_stats"
}

// DefaultStats returns the stats row created on first use.
func DefaultStats() UserStats {
	return UserStats{ID: 0, TotalXP: 0, Level: 1, TreeStage: 1}
}
