package templates

import (
	"fmt"
	"html"
	"strings"
)

// StaleComplaintRow is one line item in the stale-open digest email.
type StaleComplaintRow struct {
	Title   string
	City    string
	AgeDays int
}

// RenderStaleOpenDigest generates the HTML body for the daily reminder sent
// to admins listing complaints that are still Open past the threshold.
func RenderStaleOpenDigest(rows []StaleComplaintRow) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(fmt.Sprintf(
			`<tr><td style="padding:8px 12px;border-bottom:1px solid #e5e7eb;">%s</td><td style="padding:8px 12px;border-bottom:1px solid #e5e7eb;">%s</td><td style="padding:8px 12px;border-bottom:1px solid #e5e7eb;text-align:right;">%d days</td></tr>`,
			html.EscapeString(row.Title), html.EscapeString(row.City), row.AgeDays))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <title>Open complaints awaiting triage</title>
</head>
<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #111827; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 0 auto; padding: 24px;">
    <h2 style="color:#1f2937;">Open complaints awaiting triage</h2>
    <p style="color:#374151;">The following complaints have been Open for more than three days:</p>
    <table style="border-collapse:collapse;width:100%%;font-size:14px;">
      <tr>
        <th style="text-align:left;padding:8px 12px;border-bottom:2px solid #9ca3af;">Title</th>
        <th style="text-align:left;padding:8px 12px;border-bottom:2px solid #9ca3af;">City</th>
        <th style="text-align:right;padding:8px 12px;border-bottom:2px solid #9ca3af;">Age</th>
      </tr>
      %s
    </table>
    <p style="color:#6b7280;font-size:12px;margin-top:24px;">You receive this digest because you are a Civic Complaints administrator.</p>
  </div>
</body>
</html>`, b.String())
}
