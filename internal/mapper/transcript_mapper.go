package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"yt-coach-be/internal/entity"
	"yt-coach-be/internal/model"
)

type TranscriptMapper struct{}

func NewTranscriptMapper() *TranscriptMapper {
	return &TranscriptMapper{}
}

func (m *TranscriptMapper) ToModel(e *entity.Transcript) *model.Transcript {
	var metadata datatypes.JSON
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	return &model.Transcript{
		Id:        e.Id,
		VideoId:   e.VideoId,
		VideoUrl:  e.VideoUrl,
		Title:     e.Title,
		Content:   e.Content,
		Metadata:  metadata,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *TranscriptMapper) ToEntity(mo *model.Transcript) *entity.Transcript {
	var metadata map[string]interface{}
	if len(mo.Metadata) > 0 {
		// Best effort, a malformed blob just yields no metadata.
		_ = json.Unmarshal(mo.Metadata, &metadata)
	}

	return &entity.Transcript{
		Id:        mo.Id,
		VideoId:   mo.VideoId,
		VideoUrl:  mo.VideoUrl,
		Title:     mo.Title,
		Content:   mo.Content,
		Metadata:  metadata,
		CreatedAt: mo.CreatedAt,
		UpdatedAt: mo.UpdatedAt,
	}
}
