package domain

import "time"

// RequestLog is one rate-limited request event. The limiter counts rows in
// the trailing window per (user, endpoint); rows older than the largest
// configured window are prunable.
type RequestLog struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	UserID    string    `gorm:"type:text;not null;index:idx_request_logs_user_endpoint" json:"user_id"`
	Endpoint  string    `gorm:"type:text;not null;index:idx_request_logs_user_endpoint" json:"endpoint"`
	CreatedAt time.Time `gorm:"index:idx_request_logs_created" json:"created_at"`
}

// TableName returns the database table name for RequestLog.
func (RequestLog) TableName() string {
	return "request_logs"
}
