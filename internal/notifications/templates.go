package notifications

import (
	"fmt"
	"strings"
	"text/template"

	"shiptrack/internal/core/domain/model/shipment"
)

// templateData is what every message template may reference.
type templateData struct {
	TrackingCode    string
	RecipientName   string
	DeliveryAddress string
	Status          string
}

type messageTemplate struct {
	subject string
	body    *template.Template
}

var statusTemplates = map[shipment.Status]messageTemplate{
	shipment.Assigned: {
		subject: "Shipment {{.TrackingCode}} is on its way soon",
		body: mustParse("assigned",
			"Hello {{.RecipientName}},\n\n"+
				"your shipment {{.TrackingCode}} has been assigned for delivery "+
				"to {{.DeliveryAddress}}.\n"),
	},
	shipment.PickedUp: {
		subject: "Shipment {{.TrackingCode}} picked up",
		body: mustParse("picked_up",
			"Hello {{.RecipientName}},\n\n"+
				"your shipment {{.TrackingCode}} has been picked up and will be "+
				"delivered to {{.DeliveryAddress}}.\n"),
	},
	shipment.InTransit: {
		subject: "Shipment {{.TrackingCode}} in transit",
		body: mustParse("in_transit",
			"Hello {{.RecipientName}},\n\n"+
				"your shipment {{.TrackingCode}} is in transit.\n"),
	},
	shipment.OutForDelivery: {
		subject: "Shipment {{.TrackingCode}} out for delivery",
		body: mustParse("out_for_delivery",
			"Hello {{.RecipientName}},\n\n"+
				"your shipment {{.TrackingCode}} is out for delivery today "+
				"to {{.DeliveryAddress}}.\n"),
	},
	shipment.Delivered: {
		subject: "Shipment {{.TrackingCode}} delivered",
		body: mustParse("delivered",
			"Hello {{.RecipientName}},\n\n"+
				"your shipment {{.TrackingCode}} has been delivered.\n"),
	},
	shipment.NotDelivered: {
		subject: "Delivery attempt for shipment {{.TrackingCode}} failed",
		body: mustParse("not_delivered",
			"Hello {{.RecipientName}},\n\n"+
				"we attempted to deliver shipment {{.TrackingCode}} but could not "+
				"complete the delivery. A new attempt will be scheduled.\n"),
	},
	shipment.Returned: {
		subject: "Shipment {{.TrackingCode}} returned",
		body: mustParse("returned",
			"Hello {{.RecipientName}},\n\n"+
				"shipment {{.TrackingCode}} has been returned to the sender.\n"),
	},
	shipment.Cancelled: {
		subject: "Shipment {{.TrackingCode}} cancelled",
		body: mustParse("cancelled",
			"Hello {{.RecipientName}},\n\n"+
				"shipment {{.TrackingCode}} has been cancelled.\n"),
	},
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}

// renderMessage produces the subject and body for one status notification.
// Unknown statuses and render failures fall back to a minimal plain-text
// message, so a template problem never blocks a notification.
func renderMessage(status shipment.Status, data templateData) (subject, body string) {
	tmpl, ok := statusTemplates[status]
	if !ok {
		return fallbackMessage(status, data)
	}

	subjectTemplate, err := template.New("subject").Parse(tmpl.subject)
	if err != nil {
		return fallbackMessage(status, data)
	}

	var subjectBuilder, bodyBuilder strings.Builder
	if err := subjectTemplate.Execute(&subjectBuilder, data); err != nil {
		return fallbackMessage(status, data)
	}
	if err := tmpl.body.Execute(&bodyBuilder, data); err != nil {
		return fallbackMessage(status, data)
	}
	return subjectBuilder.String(), bodyBuilder.String()
}

func fallbackMessage(status shipment.Status, data templateData) (string, string) {
	subject := fmt.Sprintf("Shipment %s status update", data.TrackingCode)
	body := fmt.Sprintf("Shipment %s changed status to %s.\n", data.TrackingCode, status)
	return subject, body
}
