package webhook

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Family identifies a destination whose request body must be reshaped
type Family int

const (
	FamilyGeneric Family = iota
	FamilySlack
	FamilyDiscord
)

func (f Family) String() string {
	switch f {
	case FamilySlack:
		return "slack"
	case FamilyDiscord:
		return "discord"
	default:
		return "generic"
	}
}

// familyMatcher maps a host suffix to a family. Matchers are checked
// in order; the first hit wins and unmatched hosts stay generic.
type familyMatcher struct {
	hostSuffix string
	family     Family
}

var familyMatchers = []familyMatcher{
	{"hooks.slack.com", FamilySlack},
	{"discord.com", FamilyDiscord},
	{"discordapp.com", FamilyDiscord},
}

// DetectFamily classifies a destination URL
func DetectFamily(rawURL string) Family {
	u, err := url.Parse(rawURL)
	if err != nil {
		return FamilyGeneric
	}
	host := strings.ToLower(u.Hostname())
	for _, m := range familyMatchers {
		if host == m.hostSuffix || strings.HasSuffix(host, "."+m.hostSuffix) {
			return m.family
		}
	}
	return FamilyGeneric
}

// FormatBody renders the request body for a destination family. The
// generic family sends the canonical bytes untouched.
func FormatBody(family Family, event string, payload map[string]interface{}, canonical []byte) ([]byte, error) {
	switch family {
	case FamilySlack:
		return json.Marshal(slackMessage(event, payload))
	case FamilyDiscord:
		return json.Marshal(discordMessage(event, payload))
	default:
		return canonical, nil
	}
}

// Score color thresholds shared by Slack and Discord renderings
const (
	colorGoodHex    = "#2ecc71"
	colorWarningHex = "#f39c12"
	colorDangerHex  = "#e74c3c"

	colorGoodInt    = 0x2ecc71
	colorWarningInt = 0xf39c12
	colorDangerInt  = 0xe74c3c
)

func scoreColorHex(score int) string {
	switch {
	case score >= 80:
		return colorGoodHex
	case score >= 60:
		return colorWarningHex
	default:
		return colorDangerHex
	}
}

func scoreColorInt(score int) int {
	switch {
	case score >= 80:
		return colorGoodInt
	case score >= 60:
		return colorWarningInt
	default:
		return colorDangerInt
	}
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Fields []slackField `json:"fields,omitempty"`
}

type slackPayload struct {
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments,omitempty"`
}

func slackMessage(event string, payload map[string]interface{}) slackPayload {
	siteName, _ := payload["site_name"].(string)
	headline := eventHeadline(event, siteName, payload)

	msg := slackPayload{Text: headline}

	if event == EventAnalysisComplete {
		score := intValue(payload["score"])
		attachment := slackAttachment{Color: scoreColorHex(score)}
		if summary, ok := payload["departments_summary"].(map[string]interface{}); ok {
			for _, dept := range []string{"development", "marketing", "sales", "delivery", "accounting"} {
				deptData, ok := summary[dept].(map[string]interface{})
				if !ok {
					continue
				}
				attachment.Fields = append(attachment.Fields, slackField{
					Title: titleCase(dept),
					Value: fmt.Sprintf("%d/100", intValue(deptData["score"])),
					Short: true,
				})
			}
		}
		msg.Attachments = []slackAttachment{attachment}
	}

	return msg
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

type discordPayload struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

func discordMessage(event string, payload map[string]interface{}) discordPayload {
	siteName, _ := payload["site_name"].(string)
	headline := eventHeadline(event, siteName, payload)

	msg := discordPayload{Content: headline}

	if event == EventAnalysisComplete {
		score := intValue(payload["score"])
		msg.Embeds = []discordEmbed{{
			Title:       fmt.Sprintf("Overall score: %d/100", score),
			Description: fmt.Sprintf("Principle alignment: %d/100", intValue(payload["pmba_alignment"])),
			Color:       scoreColorInt(score),
		}}
	}

	return msg
}

func eventHeadline(event, siteName string, payload map[string]interface{}) string {
	switch event {
	case EventAnalysisComplete:
		return fmt.Sprintf("Business analysis complete for %s: %d/100", siteName, intValue(payload["score"]))
	case EventCriticalIssueFound:
		title, _ := payload["issue_title"].(string)
		return fmt.Sprintf("Critical issue found for %s: %s", siteName, title)
	case EventScoreImproved:
		return fmt.Sprintf("Score improved for %s: %d -> %d", siteName, intValue(payload["old_score"]), intValue(payload["new_score"]))
	case EventScoreDeclined:
		return fmt.Sprintf("Score declined for %s: %d -> %d", siteName, intValue(payload["old_score"]), intValue(payload["new_score"]))
	case EventPDFGenerated:
		return fmt.Sprintf("PDF report generated for %s", siteName)
	case EventProcessDocsCreated:
		return fmt.Sprintf("Process documentation created for %s", siteName)
	default:
		return fmt.Sprintf("%s for %s", event, siteName)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// intValue tolerates the numeric types a payload may carry after a
// JSON round trip
func intValue(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}
