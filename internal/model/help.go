package model

import "time"

// HelpPage is the rendered usage guide.
type HelpPage struct {
	Title       string
	Description string
	HTMLContent string
	UpdatedAt   time.Time // Modification time of the source file
}
