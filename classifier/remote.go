package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"review-digest/httpclient"
	"review-digest/models"
)

// RemoteClient calls the model-serving sidecar that hosts the fitted
// vectorizer and classifier. It implements Vectorizer and Model.
type RemoteClient struct {
	base *httpclient.BaseClient
}

type transformRequest struct {
	Texts []string `json:"texts"`
}

type transformResponse struct {
	Features []Features `json:"features"`
}

type predictRequest struct {
	Features []Features `json:"features"`
}

type predictResponse struct {
	LabelIDs []int `json:"label_ids"`
}

// HTTPError is a non-2xx answer from the model server.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("model server request failed: status=%d body=%s", e.StatusCode, e.Body)
}

// NewRemoteClient builds a client for baseURL. CLASSIFIER_API_KEY, when set,
// is sent as a bearer token.
func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		base: httpclient.NewBaseClient(baseURL, httpclient.Config{
			Timeout: timeout,
			APIKey:  os.Getenv("CLASSIFIER_API_KEY"),
		}),
	}
}

// Transform applies the fitted feature transform. A 422 answer means the
// texts are incompatible with the vectorizer vocabulary.
func (c *RemoteClient) Transform(ctx context.Context, texts []string) ([]Features, error) {
	var out transformResponse
	if err := c.post(ctx, "/v1/transform", transformRequest{Texts: texts}, &out); err != nil {
		return nil, models.ArtifactError("vectorizer transform", err)
	}
	return out.Features, nil
}

func (c *RemoteClient) Predict(ctx context.Context, features []Features) ([]int, error) {
	var out predictResponse
	if err := c.post(ctx, "/v1/predict", predictRequest{Features: features}, &out); err != nil {
		return nil, models.ArtifactError("classifier predict", err)
	}
	return out.LabelIDs, nil
}

func (c *RemoteClient) post(ctx context.Context, relPath string, in, out any) error {
	buf, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := c.base.NewRequest(ctx, http.MethodPost, relPath, nil, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	const maxBodySize = 64 * 1024 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("model server response read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.Unmarshal(body, out)
}
