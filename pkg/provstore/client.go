// Package provstore uploads provenance documents to a ProvStore-compatible
// service. The client consumes the PROV-N text produced by the prov
// package unchanged.
package provstore

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/httputil"
)

// Client talks to one ProvStore endpoint on behalf of one user.
type Client struct {
	endpoint string
	username string
	apiKey   string
	httpc    *http.Client
	retry    func(ctx context.Context, fn func() error) error
}

// NewClient builds a client for the given endpoint. Credentials are the
// ProvStore username and API key.
func NewClient(endpoint, username, apiKey string) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		username: username,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: 30 * time.Second},
		retry:    httputil.RetryWithBackoff,
	}
}

// DocumentRef identifies an uploaded document.
type DocumentRef struct {
	ID    int64  `json:"id"`
	RecID string `json:"rec_id"`
	URL   string `json:"url"`
}

type uploadRequest struct {
	RecID       string `json:"rec_id"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Public      bool   `json:"public"`
}

// Upload posts a PROV-N document under the given name. Server-side
// failures are retried with backoff; authentication and validation
// failures are not.
func (c *Client) Upload(ctx context.Context, name string, provn []byte, public bool) (DocumentRef, error) {
	body, err := json.Marshal(uploadRequest{
		RecID:       name,
		Content:     string(provn),
		ContentType: "provn",
		Public:      public,
	})
	if err != nil {
		return DocumentRef{}, errors.Wrap(errors.ErrCodeInternal, err, "encode upload request")
	}

	var ref DocumentRef
	err = c.retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.endpoint+"/documents/", bytes.NewReader(body))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "build upload request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", fmt.Sprintf("ApiKey %s:%s", c.username, c.apiKey))

		resp, err := c.httpc.Do(req)
		if err != nil {
			return &httputil.RetryableError{
				Err: errors.Wrap(errors.ErrCodeNetwork, err, "upload %q", name),
			}
		}
		defer resp.Body.Close()

		if httputil.RetryableStatus(resp.StatusCode) {
			return &httputil.RetryableError{
				Err: errors.New(errors.ErrCodeNetwork, "upload %q: server returned %s", name, resp.Status),
			}
		}
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return errors.New(errors.ErrCodeNetwork,
				"upload %q: %s: %s", name, resp.Status, strings.TrimSpace(string(msg)))
		}
		if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
			return errors.Wrap(errors.ErrCodeSchema, err, "decode upload response for %q", name)
		}
		return nil
	})
	if err != nil {
		var retryable *httputil.RetryableError
		if stderrors.As(err, &retryable) {
			return DocumentRef{}, retryable.Err
		}
		return DocumentRef{}, err
	}
	if ref.URL == "" && ref.ID != 0 {
		ref.URL = fmt.Sprintf("%s/documents/%d", c.endpoint, ref.ID)
	}
	return ref, nil
}

// Delete removes an uploaded document.
func (c *Client) Delete(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/documents/%d/", c.endpoint, id), nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build delete request")
	}
	req.Header.Set("Authorization", fmt.Sprintf("ApiKey %s:%s", c.username, c.apiKey))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete document %d", id)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return errors.New(errors.ErrCodeNetwork, "delete document %d: %s", id, resp.Status)
	}
	return nil
}
