package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/maastricht-university/emotiai/emotion"
)

// --- Text (/predict_text) ---
type TextReq struct {
	Text string `json:"text"`
}

func (h *HTTP) PredictText(ctx context.Context, text string) (*emotion.Result, error) {
	b, err := json.Marshal(TextReq{Text: text})
	if err != nil {
		return nil, fmt.Errorf("predict_text marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base+TextPath, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return h.do(req, "predict_text")
}
