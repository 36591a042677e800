package markdown

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/mamaope/legalconsult/internal/models"
)

// looksLikeJSON reports whether the trimmed input has the shape of a JSON
// object and should go through the structured-card path.
func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}

const cardParseError = `<div class="consultation-card consultation-card-error">Could not parse the structured response.</div>`

// renderCard renders a consultation payload as a fixed card layout. Unknown
// and missing fields are omitted; malformed JSON yields an inline error
// message, never a failure.
func renderCard(raw string) string {
	var c models.Consultation
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &c); err != nil {
		return cardParseError
	}

	var b strings.Builder
	b.WriteString(`<div class="consultation-card">`)

	if c.CriticalAlert.Set {
		text := c.CriticalAlert.Text
		if text == "" {
			text = "Critical alert: urgent review recommended"
		}
		fmt.Fprintf(&b, `<div class="card-alert"><i class="fa-triangle-exclamation"></i> %s</div>`, html.EscapeString(text))
	}

	if c.ClinicalOverview != "" {
		b.WriteString(`<div class="card-section card-overview"><h3><i class="fa-file-lines"></i> Overview</h3>`)
		fmt.Fprintf(&b, `<p>%s</p></div>`, html.EscapeString(c.ClinicalOverview))
	}

	if len(c.DifferentialDiagnoses) > 0 {
		b.WriteString(`<div class="card-section card-differentials"><h3><i class="fa-list-ol"></i> Differential Diagnoses</h3><ol class="md-list md-list-numbered">`)
		for _, d := range sortDiagnoses(c.DifferentialDiagnoses) {
			b.WriteString(`<li class="card-diagnosis">`)
			fmt.Fprintf(&b, `<span class="probability-badge %s">%s%%</span> `,
				probabilityClass(d.ProbabilityPercent), trimFloat(d.ProbabilityPercent))
			fmt.Fprintf(&b, `<strong>%s</strong>`, html.EscapeString(d.Diagnosis))
			if d.Evidence != "" {
				fmt.Fprintf(&b, `<p class="card-evidence">%s</p>`, html.EscapeString(d.Evidence))
			}
			if len(d.Citations) > 0 {
				b.WriteString(`<ul class="card-citations">`)
				for _, cite := range d.Citations {
					fmt.Fprintf(&b, `<li>%s</li>`, html.EscapeString(cite))
				}
				b.WriteString(`</ul>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ol></div>`)
	}

	writeCardList(&b, "card-workup", "fa-vials", "Immediate Workup", c.ImmediateWorkup)
	writeCardList(&b, "card-management", "fa-briefcase-medical", "Management", c.Management)
	writeCardList(&b, "card-redflags", "fa-triangle-exclamation", "Red Flags", c.RedFlags)

	if c.AdditionalInformationNeeded != "" {
		b.WriteString(`<div class="card-section card-additional"><h3><i class="fa-circle-info"></i> Additional Information Needed</h3>`)
		fmt.Fprintf(&b, `<p>%s</p></div>`, html.EscapeString(c.AdditionalInformationNeeded))
	}

	if len(c.SourcesUsed) > 0 {
		writeCardList(&b, "card-sources", "fa-book", "Sources", c.SourcesUsed)
	}

	b.WriteString(`</div>`)
	return b.String()
}

// sortDiagnoses orders by probability descending; ties keep their original
// relative order.
func sortDiagnoses(in []models.Diagnosis) []models.Diagnosis {
	out := make([]models.Diagnosis, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProbabilityPercent > out[j].ProbabilityPercent
	})
	return out
}

func probabilityClass(p float64) string {
	switch {
	case p >= 60:
		return "probability-high"
	case p >= 30:
		return "probability-moderate"
	default:
		return "probability-low"
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.1f", f)
	s = strings.TrimSuffix(s, ".0")
	return s
}

func writeCardList(b *strings.Builder, class, icon, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, `<div class="card-section %s"><h3><i class="%s"></i> %s</h3><ul class="md-list md-list-bulleted">`, class, icon, title)
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		fmt.Fprintf(b, `<li>%s</li>`, html.EscapeString(item))
	}
	b.WriteString(`</ul></div>`)
}
