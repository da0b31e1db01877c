package service

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Формат дат в письмах: 05 Sep 2026
const emailDateLayout = "02 Jan 2006"

// Имена шаблонов совпадают с label template в метрике notification_emails_sent_total
const (
	TemplateBorrowed    = "book_borrowed"
	TemplateReturned    = "book_returned"
	TemplateReview      = "review_created"
	TemplateNewStudent  = "student_registered"
	TemplateDueReminder = "due_reminder"
	TemplatePostDue     = "post_due_reminder"
)

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "book_borrowed"}}Hi {{.MemberName}},

You have borrowed "{{.BookName}}" from BookNest.

Please return it by {{.DueDate}}.

Happy reading!
BookNest Library{{end}}

{{define "book_returned"}}Hi {{.MemberName}},

Thank you for returning "{{.BookName}}" on {{.ReturnedAt}}.

  Borrowed: {{.BorrowedAt}}
  Due:      {{.DueDate}}
  Returned: {{.ReturnedAt}}

We hope you enjoyed it. See you at the library!
BookNest Library{{end}}

{{define "review_created"}}Hello,

{{.MemberName}} just reviewed "{{.BookName}}".

Visit the catalogue to moderate the review if needed.
BookNest Library{{end}}

{{define "student_registered"}}Hello,

A new student registration is waiting for approval:

  Name:  {{.Name}}
  Email: {{.Email}}

Approve or reject the request in the admin panel.
BookNest Library{{end}}

{{define "due_reminder"}}Hi {{.MemberName}},

This is a friendly reminder that "{{.BookName}}" is due today, {{.DueDate}}.

Please return it to the library to avoid overdue status.
BookNest Library{{end}}

{{define "post_due_reminder"}}Hi {{.MemberName}},

"{{.BookName}}" was due on {{.DueDate}} and is now 3 days overdue.

Please return it as soon as possible.
BookNest Library{{end}}
`))

// Темы писем по имени шаблона
var emailSubjects = map[string]string{
	TemplateBorrowed:    "You borrowed a book from BookNest",
	TemplateReturned:    "Thanks for returning your book",
	TemplateReview:      "New review awaiting moderation",
	TemplateNewStudent:  "New student registration pending approval",
	TemplateDueReminder: "Your Book is Due Today!",
	TemplatePostDue:     "Book Return Reminder - 3 Days Overdue",
}

// renderEmail выполняет именованный шаблон с данными
func renderEmail(name string, data any) (subject, body string, err error) {
	subject, ok := emailSubjects[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}

	var sb strings.Builder
	if err := emailTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", "", fmt.Errorf("failed to render email template %q: %w", name, err)
	}

	return subject, sb.String(), nil
}

func formatEmailDate(t time.Time) string {
	return t.Format(emailDateLayout)
}
