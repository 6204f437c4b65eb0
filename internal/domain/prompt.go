package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PromptSource identifies where a prompt record came from.
type PromptSource string

const (
	PromptSourceUpload PromptSource = "upload"
	PromptSourceImport PromptSource = "import"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Prompt represents a generated caption record with derived tags and rating
// statistics. AvgRating and RatingCount are derived columns, fully recomputed
// on every rating submission.
type Prompt struct {
	ID          string       `gorm:"type:text;primaryKey" json:"id"`
	UserID      string       `gorm:"type:text;not null;index:idx_prompts_user" json:"user_id"`
	PromptText  string       `gorm:"type:text;not null" json:"prompt_text"`
	StyleTags   StringArray  `gorm:"type:text" json:"style_tags"`
	Source      PromptSource `gorm:"type:text;default:upload" json:"source"`
	AvgRating   float64      `gorm:"default:0" json:"avg_rating"`
	RatingCount int          `gorm:"default:0" json:"rating_count"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName returns the database table name for Prompt.
func (Prompt) TableName() string {
	return "prompts"
}

// PromptView is a prompt annotated with caller-specific state for API
// responses.
type PromptView struct {
	Prompt
	ImageURL    string `json:"image_url,omitempty"`
	IsFavorited bool   `json:"is_favorited"`
}
