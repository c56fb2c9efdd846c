package service

import "github.com/Payphone-Digital/jury/pkg/mailer"

const mailFooter = `<p style="margin-top:30px;color:#666;font-size:12px;">This is an automated notification from the Jury Management System.</p>`

const rfc3339 = "2006-01-02T15:04:05Z07:00"

// notificationTemplates render a Notification. Data values arrive as
// decoded JSON, so dates are RFC 3339 strings.
var notificationTemplates = map[string]mailer.Template{
	string(NotifyPenaltyCreated): {
		Subject: `New Penalty Assigned - Jury Management System`,
		Text: `Dear {{ .To.Name }},
A new penalty has been assigned to your account.
Category: {{ .Data.category }}
Reason: {{ .Data.reason }}
Amount: PKR {{ .Data.amount }}
`,
		HTML: `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px;">
<h2 style="color:#d32f2f;">New Penalty Assigned</h2>
<p>Dear {{ .To.Name }},</p>
<p>A new penalty has been assigned to your account:</p>
<div style="background-color:#f5f5f5;padding:15px;border-radius:5px;">
<p><strong>Category:</strong> {{ .Data.category }}</p>
<p><strong>Reason:</strong> {{ .Data.reason }}</p>
<p><strong>Amount:</strong> PKR {{ .Data.amount }}</p>
</div>
<p>Please log in to your account to view more details.</p>` + mailFooter + `</div>`,
	},
	string(NotifyExpenseCreated): {
		Subject: `New Expense Record Added - Jury Management System`,
		Text: `Dear {{ .To.Name }},
A new expense record has been added to your account.
Total Collection: PKR {{ .Data.totalCollection }}
Bill: PKR {{ .Data.bill }}
Arrears: PKR {{ .Data.arrears }}
Status: {{ .Data.status | default "-" }}
`,
		HTML: `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px;">
<h2 style="color:#1976d2;">New Expense Record</h2>
<p>Dear {{ .To.Name }},</p>
<p>A new expense record has been added to your account:</p>
<div style="background-color:#f5f5f5;padding:15px;border-radius:5px;">
<p><strong>Total Collection:</strong> PKR {{ .Data.totalCollection }}</p>
<p><strong>Bill:</strong> PKR {{ .Data.bill }}</p>
<p><strong>Arrears:</strong> PKR {{ .Data.arrears }}</p>
<p><strong>Status:</strong> {{ .Data.status | default "-" }}</p>
</div>
<p>Please log in to your account to view more details.</p>` + mailFooter + `</div>`,
	},
	string(NotifyActivityReminder): {
		Subject: `Reminder: {{ .Data.name | trunc 80 }} - Jury Management System`,
		Text: `Dear {{ .To.Name }},
This is a reminder for the activity "{{ .Data.name }}" on {{ dateInZone "Monday, 02 Jan 2006 15:04 MST" (toDate "` + rfc3339 + `" .Data.date) "UTC" }}.
{{ .Data.description }}
`,
		HTML: `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px;">
<h2 style="color:#f57c00;">Activity Reminder</h2>
<p>Dear {{ .To.Name }},</p>
<p>This is a reminder for an upcoming activity:</p>
<div style="background-color:#f5f5f5;padding:15px;border-radius:5px;">
<p><strong>Activity:</strong> {{ .Data.name }}</p>
<p><strong>Date:</strong> {{ dateInZone "Monday, 02 Jan 2006 15:04 MST" (toDate "` + rfc3339 + `" .Data.date) "UTC" }}</p>
{{- with .Data.description }}
<p><strong>Description:</strong> {{ . }}</p>
{{- end }}
</div>` + mailFooter + `</div>`,
	},
}
