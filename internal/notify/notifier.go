// Package notify sends transactional email about investment state changes.
package notify

import (
	"bytes"
	"fmt"
	"html/template"

	log "github.com/sirupsen/logrus"

	"github.com/hebed-ai/hebed/internal/model"
)

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"money": FormatCents,
}).Parse(`
{{define "created"}}<p>Hello {{.CompanyName}},</p>
<p>{{.InvestorName}} pledged <strong>{{money .AmountCents}}</strong> to <em>{{.CampaignTitle}}</em>.</p>
<p>Review it in your dashboard: <a href="{{.Link}}">{{.Link}}</a></p>{{end}}

{{define "accepted"}}<p>Hello {{.InvestorName}},</p>
<p>{{.CompanyName}} accepted your investment of <strong>{{money .AmountCents}}</strong> in <em>{{.CampaignTitle}}</em>.</p>
<p>Details: <a href="{{.Link}}">{{.Link}}</a></p>{{end}}

{{define "rejected"}}<p>Hello {{.InvestorName}},</p>
<p>{{.CompanyName}} declined your investment of <strong>{{money .AmountCents}}</strong> in <em>{{.CampaignTitle}}</em>.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>Your payment is being refunded to the original payment method.</p>{{end}}
`))

type enqueuer interface {
	Enqueue(m Message) bool
}

// Notifier renders investment emails and hands them to the queue
type Notifier struct {
	queue     enqueuer
	publicURL string
}

func NewNotifier(queue enqueuer, publicURL string) *Notifier {
	return &Notifier{queue: queue, publicURL: publicURL}
}

type mailData struct {
	*model.InvestmentParties
	Link   string
	Reason string
}

// InvestmentCreated tells the startup about a new pledge
func (n *Notifier) InvestmentCreated(p *model.InvestmentParties) {
	n.send(p.OwnerEmail, "New investment in "+p.CampaignTitle, "created", mailData{
		InvestmentParties: p,
		Link:              fmt.Sprintf("%s/dashboard/campaigns/%d/investments", n.publicURL, p.CampaignID),
	})
}

// InvestmentAccepted tells the investor the startup accepted the pledge
func (n *Notifier) InvestmentAccepted(p *model.InvestmentParties) {
	n.send(p.InvestorEmail, "Your investment in "+p.CampaignTitle+" was accepted", "accepted", mailData{
		InvestmentParties: p,
		Link:              fmt.Sprintf("%s/dashboard/investments/%d", n.publicURL, p.ID),
	})
}

// InvestmentRejected tells the investor the startup declined the pledge
func (n *Notifier) InvestmentRejected(p *model.InvestmentParties, reason string) {
	n.send(p.InvestorEmail, "Update on your investment in "+p.CampaignTitle, "rejected", mailData{
		InvestmentParties: p,
		Reason:            reason,
	})
}

func (n *Notifier) send(to, subject, name string, data mailData) {
	if to == "" {
		log.WithField("template", name).Warn("no recipient address, skipping email")
		return
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.WithError(err).WithField("template", name).Error("failed to render email")
		return
	}

	n.queue.Enqueue(Message{To: to, Subject: subject, HTML: buf.String()})
}

// FormatCents renders an amount in cents as US dollars, e.g. 1000000 -> $10,000.00
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	dollars := fmt.Sprintf("%d", cents/100)
	var grouped []byte
	for i := range dollars {
		if i > 0 && (len(dollars)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, dollars[i])
	}

	return fmt.Sprintf("%s$%s.%02d", sign, grouped, cents%100)
}
