package mailerrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SuperarseTics/library-superarse-backend/util/httpx"
)

type httpRepo struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewHTTP posts messages to a JSON mail-delivery API.
func NewHTTP(apiURL, apiKey, from string) Repo {
	return &httpRepo{apiURL: apiURL, apiKey: apiKey, from: from, client: httpx.Client()}
}

func (r *httpRepo) Send(ctx context.Context, msg Message) error {
	body := map[string]any{
		"from":    r.from,
		"to":      msg.To,
		"subject": msg.Subject,
		"text":    msg.Body,
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail send failed: %s", resp.Status)
	}
	return nil
}

type noopRepo struct{}

// NewNoop drops every message; used when MAIL_API_URL is unset.
func NewNoop() Repo { return noopRepo{} }

func (noopRepo) Send(ctx context.Context, msg Message) error { return nil }
