package results

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"personality_insights/internal/logger"
)

const maxResponseBytes = 4 << 20

type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, log *logger.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *HTTPClient) Justification(ctx context.Context, id string) (Justification, error) {
	id, err := NormalizeID(id)
	if err != nil {
		return Justification{}, err
	}
	body, err := c.get(ctx, "fetch justification", "/api/justification/"+url.PathEscape(id))
	if err != nil {
		return Justification{}, err
	}
	doc := gjson.ParseBytes(body)
	out := Justification{ParticipantID: id, Found: doc.Get("found").Bool()}
	if !out.Found {
		out.Message = missingMessage(doc.Get("message").String())
		return out, nil
	}
	out.Text = doc.Get("justification").String()
	c.log.Debug("justification fetched", "participant", id, "bytes", len(out.Text))
	return out, nil
}

func (c *HTTPClient) Result(ctx context.Context, id string) (Result, error) {
	id, err := NormalizeID(id)
	if err != nil {
		return Result{}, err
	}
	body, err := c.get(ctx, "fetch result", "/get_previous_result?id="+url.QueryEscape(id))
	if err != nil {
		return Result{}, err
	}
	doc := gjson.ParseBytes(body)
	out := Result{ParticipantID: id, Found: doc.Get("found").Bool()}
	if !out.Found {
		out.Message = missingMessage(doc.Get("message").String())
		return out, nil
	}
	out.Scores = map[string]string{}
	doc.Get("scores").ForEach(func(k, v gjson.Result) bool {
		out.Scores[k.String()] = v.String()
		return true
	})
	out.Performance = map[string]float64{}
	doc.Get("performance").ForEach(func(k, v gjson.Result) bool {
		out.Performance[k.String()] = v.Float()
		return true
	})
	out.Analysis = doc.Get("analysis").String()
	c.log.Debug("result fetched", "participant", id, "scores", len(out.Scores))
	return out, nil
}

func (c *HTTPClient) get(ctx context.Context, op, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	c.log.Debug("result service call", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: op, Status: resp.StatusCode, Message: gjson.GetBytes(body, "message").String()}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: response is not valid JSON", op)
	}
	return body, nil
}
