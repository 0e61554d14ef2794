package subscribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Submission 一次订阅提交
type Submission struct {
	Email     string
	FirstName string
	LastName  string
	Company   string
	PageURI   string
	PageName  string
	Consent   bool
	IPAddress string
}

// Submitter 把提交转发到表单服务商
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// UpstreamError 表单服务商返回非 2xx
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("forms upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("forms upstream returned status %d: %s", e.StatusCode, e.Body)
}

// FormsClient 表单服务商提交接口的客户端
type FormsClient struct {
	Endpoint   string
	PortalID   string
	FormID     string
	HTTPClient *http.Client
}

// NewFormsClient 按配置创建客户端
func NewFormsClient(cfg Config) *FormsClient {
	return &FormsClient{
		Endpoint:   cfg.FormsEndpoint,
		PortalID:   cfg.PortalID,
		FormID:     cfg.FormID,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type formField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type formContext struct {
	PageURI   string `json:"pageUri,omitempty"`
	PageName  string `json:"pageName,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
}

type consentToProcess struct {
	ConsentToProcess bool   `json:"consentToProcess"`
	Text             string `json:"text"`
}

type legalConsent struct {
	Consent consentToProcess `json:"consent"`
}

type formPayload struct {
	Fields              []formField   `json:"fields"`
	Context             formContext   `json:"context"`
	LegalConsentOptions *legalConsent `json:"legalConsentOptions,omitempty"`
}

const consentText = "I agree to receive marketing communications."

func buildPayload(s Submission) formPayload {
	p := formPayload{
		Fields: []formField{{Name: "email", Value: s.Email}},
		Context: formContext{
			PageURI:   s.PageURI,
			PageName:  s.PageName,
			IPAddress: s.IPAddress,
		},
	}
	optional := []formField{
		{Name: "firstname", Value: s.FirstName},
		{Name: "lastname", Value: s.LastName},
		{Name: "company", Value: s.Company},
	}
	for _, f := range optional {
		if f.Value != "" {
			p.Fields = append(p.Fields, f)
		}
	}
	if s.Consent {
		p.LegalConsentOptions = &legalConsent{Consent: consentToProcess{ConsentToProcess: true, Text: consentText}}
	}
	return p
}

// Submit 提交一次订阅，非 2xx 返回 *UpstreamError
func (c *FormsClient) Submit(ctx context.Context, s Submission) error {
	body, err := json.Marshal(buildPayload(s))
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	endpoint := strings.TrimRight(c.Endpoint, "/") + "/" + url.PathEscape(c.PortalID) + "/" + url.PathEscape(c.FormID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build forms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("forms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
