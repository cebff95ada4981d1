package entity

import (
	"time"

	"github.com/google/uuid"
)

type Transcript struct {
	Id        uuid.UUID
	VideoId   string
	VideoUrl  string
	Title     string
	Content   string
	Metadata  map[string]interface{} // playlist url, language, chunk stats
	CreatedAt time.Time
	UpdatedAt *time.Time
}
