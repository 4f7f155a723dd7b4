package domain

import "fmt"

// Placeholder values substituted for absent optional report fields.
const (
	DefaultReason = "No reason given"
	DefaultServer = "Unknown"
)

// Report is the inbound moderation report payload.
type Report struct {
	ClientName         string `json:"clientName"`
	ReportedPlayerName string `json:"reportedPlayerName"`
	Reason             string `json:"reason"`
	AM                 bool   `json:"am"`
	ServerID           string `json:"serverId"`
}

// Validate checks the two required identity fields.
func (r *Report) Validate() error {
	if r.ClientName == "" || r.ReportedPlayerName == "" {
		return ErrMissingReportFields
	}
	return nil
}

// ApplyDefaults substitutes placeholders for empty optional fields.
func (r *Report) ApplyDefaults() {
	if r.Reason == "" {
		r.Reason = DefaultReason
	}
	if r.ServerID == "" {
		r.ServerID = DefaultServer
	}
}

// EmbedField is one labeled field of the outbound webhook embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed is the single rich block of the outbound webhook message.
type Embed struct {
	Title  string       `json:"title"`
	Fields []EmbedField `json:"fields"`
}

// WebhookMessage is the fixed-shape document POSTed to the report webhook.
type WebhookMessage struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

// BuildWebhookMessage transforms a validated report into the outbound
// shape: a title interpolated with the accused name, the labeled fields,
// and the static mention as content. The "Other" field only appears when
// the am flag is set.
func BuildWebhookMessage(r Report, mention string) WebhookMessage {
	r.ApplyDefaults()
	fields := []EmbedField{
		{Name: "Reported by", Value: r.ClientName},
		{Name: "Reason", Value: r.Reason},
		{Name: "Server", Value: r.ServerID},
	}
	if r.AM {
		fields = append(fields, EmbedField{Name: "Other", Value: "AM"})
	}
	return WebhookMessage{
		Content: mention,
		Embeds: []Embed{{
			Title:  fmt.Sprintf("Report: %s", r.ReportedPlayerName),
			Fields: fields,
		}},
	}
}
