package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type repairAssignedEmailData struct {
	baseEmailData
	RepairAssignment
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func repairAssignedContent(data RepairAssignment) (subject, html string, err error) {
	subjectFmt := subjectRepairAssignedFmt
	heading := "New repair order"
	if data.Urgent {
		subjectFmt = subjectRepairAssignedUrgentFmt
		heading = "Urgent repair order"
	}
	subheading := ""
	if data.Escalated {
		subheading = "Reassigned after the priority window expired."
	}

	html, err = renderEmailTemplate("repair_assigned.html", repairAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:      heading,
			Heading:    heading,
			Subheading: subheading,
		},
		RepairAssignment: data,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectFmt, data.OrderNumber, data.ServiceName), html, nil
}
