package clients

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/emotiai/emotion"
)

// Endpoint paths relative to the service origin.
const (
	TextPath  = "/predict_text"
	AudioPath = "/predict_audio"
	ImagePath = "/predict_image"
)

const maxErrBody = 4096

type HTTP struct {
	c    *http.Client
	base string
	log  logrus.FieldLogger
}

func NewHTTP(baseURL string, timeout time.Duration, log logrus.FieldLogger) *HTTP {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &HTTP{
		c:    &http.Client{Transport: tr, Timeout: timeout},
		base: strings.TrimRight(baseURL, "/"),
		log:  log,
	}
}

func (h *HTTP) BaseURL() string { return h.base }

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Endpoint string
	Code     int
	Status   string
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s %s: %s", e.Endpoint, e.Status, e.Body)
}

func (h *HTTP) do(req *http.Request, endpoint string) (*emotion.Result, error) {
	start := time.Now()
	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log := h.log.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode, "took": time.Since(start).Round(time.Millisecond)})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		log.Debug("request failed")
		return nil, &StatusError{
			Endpoint: endpoint,
			Code:     resp.StatusCode,
			Status:   resp.Status,
			Body:     strings.TrimSpace(string(body)),
		}
	}

	var out emotion.Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s decode: %w", endpoint, err)
	}
	log.WithField("label", out.Label).Debug("request done")
	return &out, nil
}
