package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/mail"

	"github.com/matzehuels/magnetsheet/pkg/httputil"
)

// SendGridEndpoint is the v3 mail send API.
const SendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridTransport sends messages through the SendGrid HTTP API.
type SendGridTransport struct {
	endpoint string
	client   *httputil.Client
}

// NewSendGridTransport returns a transport authenticating with apiKey.
func NewSendGridTransport(apiKey string) *SendGridTransport {
	return &SendGridTransport{
		endpoint: SendGridEndpoint,
		client:   httputil.NewClient(map[string]string{"Authorization": "Bearer " + apiKey}),
	}
}

// WithEndpoint returns a copy of t posting to endpoint through hc.
func (t *SendGridTransport) WithEndpoint(endpoint string, hc *http.Client) *SendGridTransport {
	cp := *t
	cp.endpoint = endpoint
	if hc != nil {
		cp.client = t.client.WithHTTPClient(hc)
	}
	return &cp
}

// Name returns "sendgrid".
func (t *SendGridTransport) Name() string { return "sendgrid" }

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgAttachment struct {
	Content     string `json:"content"`
	Type        string `json:"type,omitempty"`
	Filename    string `json:"filename"`
	Disposition string `json:"disposition"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgRequest struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
	Attachments      []sgAttachment      `json:"attachments,omitempty"`
}

// Send posts msg to the API.
func (t *SendGridTransport) Send(ctx context.Context, msg Message) error {
	body, err := sendGridBody(msg)
	if err != nil {
		return err
	}
	return t.client.Send(ctx, httputil.Request{
		Method:      http.MethodPost,
		URL:         t.endpoint,
		Body:        body,
		ContentType: "application/json",
	}, nil)
}

func sendGridBody(msg Message) ([]byte, error) {
	from, err := parseAddress(msg.From)
	if err != nil {
		return nil, err
	}
	req := sgRequest{
		From:    from,
		Subject: msg.Subject,
		Content: []sgContent{{Type: "text/plain", Value: msg.Text}},
	}
	if msg.HTML != "" {
		req.Content = append(req.Content, sgContent{Type: "text/html", Value: msg.HTML})
	}

	var p sgPersonalization
	for _, to := range msg.To {
		addr, err := parseAddress(to)
		if err != nil {
			return nil, err
		}
		p.To = append(p.To, addr)
	}
	req.Personalizations = []sgPersonalization{p}

	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, sgAttachment{
			Content:     base64.StdEncoding.EncodeToString(a.Data),
			Type:        a.ContentType,
			Filename:    a.Name,
			Disposition: "attachment",
		})
	}
	return json.Marshal(req)
}

func parseAddress(s string) (sgAddress, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return sgAddress{}, err
	}
	return sgAddress{Email: addr.Address, Name: addr.Name}, nil
}

var _ Transport = (*SendGridTransport)(nil)
