package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/maastricht-university/emotiai/emotion"
)

// --- Audio (/predict_audio) and image (/predict_image) uploads ---

// PredictAudio uploads a recording under the form field "file".
func (h *HTTP) PredictAudio(ctx context.Context, filename string, data []byte) (*emotion.Result, error) {
	return h.upload(ctx, AudioPath, "predict_audio", "file", filename, "", data)
}

// PredictImage uploads an image or a camera frame under the form field "image".
func (h *HTTP) PredictImage(ctx context.Context, filename, contentType string, data []byte) (*emotion.Result, error) {
	return h.upload(ctx, ImagePath, "predict_image", "image", filename, contentType, data)
}

func (h *HTTP) upload(ctx context.Context, path, endpoint, field, filename, contentType string, data []byte) (*emotion.Result, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := createFormFile(w, field, filename, contentType)
	if err != nil {
		return nil, fmt.Errorf("%s form file: %w", endpoint, err)
	}
	if _, err = fw.Write(data); err != nil {
		return nil, fmt.Errorf("%s write: %w", endpoint, err)
	}
	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("%s close multipart: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base+path, &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return h.do(req, endpoint)
}

// createFormFile is multipart.Writer.CreateFormFile with an explicit part
// content type; the default is application/octet-stream.
func createFormFile(w *multipart.Writer, field, filename, contentType string) (io.Writer, error) {
	if contentType == "" {
		return w.CreateFormFile(field, filename)
	}
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	hdr.Set("Content-Type", contentType)
	return w.CreatePart(hdr)
}
