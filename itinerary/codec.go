package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"aventra/models"
)

// BlockKind is the stored discriminator of a time block's content.
type BlockKind string

const (
	BlockActivity BlockKind = "activity"
	BlockTravel   BlockKind = "travel"
	BlockOther    BlockKind = "other"
)

var ErrAmbiguousBlock = errors.New("time block carries both activity and travel")

// EncodedBlock is the stored form of a time block's variant part.
type EncodedBlock struct {
	Kind     BlockKind
	Content  *string
	Warnings *string
	Priority int
}

// EncodeBlock serializes whichever of activity/travel the block carries.
func EncodeBlock(b models.TimeBlock) (EncodedBlock, error) {
	enc := EncodedBlock{Kind: BlockOther}

	switch {
	case b.Activity != nil && b.Travel != nil:
		return EncodedBlock{}, ErrAmbiguousBlock
	case b.Activity != nil:
		text, err := encodeJSON(b.Activity)
		if err != nil {
			return EncodedBlock{}, fmt.Errorf("encode activity: %w", err)
		}
		enc.Kind, enc.Content, enc.Priority = BlockActivity, &text, b.Activity.Priority
	case b.Travel != nil:
		text, err := encodeJSON(b.Travel)
		if err != nil {
			return EncodedBlock{}, fmt.Errorf("encode travel: %w", err)
		}
		enc.Kind, enc.Content = BlockTravel, &text
	}

	if b.Warnings != nil {
		text, err := encodeJSON(b.Warnings)
		if err != nil {
			return EncodedBlock{}, fmt.Errorf("encode warnings: %w", err)
		}
		enc.Warnings = &text
	}
	return enc, nil
}

// DecodeBlock rebuilds a time block from its stored record. Content is
// parsed according to the discriminator only.
func DecodeBlock(doc models.TimeBlockDocument) (models.TimeBlock, error) {
	block := models.TimeBlock{
		Type:            doc.Type,
		StartTime:       doc.StartTime,
		EndTime:         doc.EndTime,
		DurationMinutes: doc.DurationMinutes,
	}

	if doc.Content != nil && *doc.Content != "" {
		switch BlockKind(doc.BlockType) {
		case BlockActivity:
			activity, err := decodeJSON[models.Activity]("activity", *doc.Content)
			if err != nil {
				return models.TimeBlock{}, err
			}
			block.Activity = &activity
		case BlockTravel:
			travel, err := decodeJSON[models.Travel]("travel", *doc.Content)
			if err != nil {
				return models.TimeBlock{}, err
			}
			block.Travel = &travel
		}
	}

	if doc.Warnings != nil && *doc.Warnings != "" {
		warnings, err := decodeJSON[[]models.Warning]("warnings", *doc.Warnings)
		if err != nil {
			return models.TimeBlock{}, err
		}
		block.Warnings = warnings
	}
	return block, nil
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeJSON parses stored text; blank text yields the zero value.
func decodeJSON[T any](field, text string) (T, error) {
	var out T
	if strings.TrimSpace(text) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, fmt.Errorf("parse stored %s: %w", field, err)
	}
	return out, nil
}
