package model

// EmbedConfig styles the HTML embed view of a user's files.
type EmbedConfig struct {
	UserID          string `db:"user_id"`
	Color           string `db:"color"`
	BackgroundColor string `db:"background_color"`
	Title           string `db:"title"`
	WebTitle        string `db:"web_title"`
}

const (
	DefaultEmbedColor           = "#ffffff"
	DefaultEmbedBackgroundColor = "#0f0f0f"
)
