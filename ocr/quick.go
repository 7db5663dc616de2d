package ocr

import (
	"context"

	"github.com/richinex/chatshot/model"
	"github.com/richinex/chatshot/storage"
	"github.com/richinex/chatshot/video"
)

// QuickProcess extracts the conversation from a screen recording and, when
// saveJSON is non-empty, writes the record there.
func (c *Client) QuickProcess(ctx context.Context, videoPath string, sampling video.Options, saveJSON string, opts ...CallOption) (model.ConversationRecord, error) {
	text, err := c.ProcessVideoFile(ctx, videoPath, sampling, opts...)
	if err != nil {
		return model.ConversationRecord{}, err
	}

	record := ParseResult(text)
	if !record.Parsed() {
		c.logger.Warn("model output is not JSON, keeping raw text", "path", videoPath)
	}

	if saveJSON != "" {
		if err := storage.NewJSONFile(saveJSON).Save(record); err != nil {
			return record, err
		}
		c.logger.Info("saved result", "path", saveJSON)
	}
	return record, nil
}
