package webhook

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
)

var docsTemplate = pongo2.Must(pongo2.FromString(`# Webhook Integration Guide

Webhooks deliver analysis events for {{ site_name }} as JSON POST
requests (the method is configurable per webhook).

## Headers

| Header | Value |
|--------|-------|
| Content-Type | application/json |
| User-Agent | {{ user_agent }} |
| {{ header_event }} | the event name |
| {{ header_webhook_id }} | the webhook's identifier |
| {{ header_signature }} | hex HMAC-SHA256 of the canonical payload |

## Verifying signatures

The signature is computed over the canonical JSON payload with your
webhook secret. Note that Slack and Discord destinations receive a
reshaped body while the signature still covers the canonical payload.

    expected = hex(hmac_sha256(secret, raw_body))
    valid = constant_time_compare(expected, headers["{{ header_signature }}"])

## Payload envelope

Every payload carries:

    {
      "event": "...",
      "timestamp": "RFC 3339 time",
      "timestamp_unix": 1700000000,
      "site_url": "{{ site_url }}",
      "site_name": "{{ site_name }}",
      "business_type": "{{ business_type }}",
      "data": { ... }
    }

Event-specific fields are promoted next to the standard ones.

## Events
{% for event in events %}
### {{ event.name }}

{{ event.description }}
{% endfor %}
## Delivery semantics

Deliveries time out after {{ timeout }} and are not retried. Any 2xx
response counts as success. Register idempotent handlers: an event can
be delivered more than once.
`))

// IntegrationDocs renders the markdown integration guide for the
// configured site
func (d *Dispatcher) IntegrationDocs() (string, error) {
	events := make([]map[string]string, 0, len(Events))
	for _, name := range Events {
		events = append(events, map[string]string{
			"name":        name,
			"description": EventDescriptions[name],
		})
	}

	out, err := docsTemplate.Execute(pongo2.Context{
		"site_url":          d.site.URL,
		"site_name":         d.site.Name,
		"business_type":     d.site.BusinessType,
		"user_agent":        userAgent,
		"header_event":      HeaderEvent,
		"header_webhook_id": HeaderWebhookID,
		"header_signature":  HeaderSignature,
		"events":            events,
		"timeout":           d.cfg.Timeout.String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render webhook docs: %w", err)
	}
	return out, nil
}
