package notification

import "github.com/valyala/fasttemplate"

const emailHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; background-color: #f4f4f7; font-family: Arial, Helvetica, sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center" style="padding: 32px 16px;">
        <table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">
          <tr>
            <td style="background-color: #1a1a2e; padding: 24px 32px;">
              <h1 style="margin: 0; color: #ffffff; font-size: 20px;">{{title}}</h1>
              <p style="margin: 4px 0 0; color: #9ca3af; font-size: 13px;">{{timestamp}}</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px; color: #374151; font-size: 15px; line-height: 1.6;">
              {{content}}
            </td>
          </tr>
          <tr>
            <td style="padding: 16px 32px; border-top: 1px solid #e5e7eb; color: #9ca3af; font-size: 12px;">
              You are receiving this message because of activity on your Sleepr account. If this was not you, change your password immediately.
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

var emailTemplate = fasttemplate.New(emailHTML, "{{", "}}")

// renderEmail fills the shared layout. Content is trusted internal HTML,
// never user input.
func renderEmail(title, timestamp, content string) string {
	return emailTemplate.ExecuteString(map[string]any{
		"title":     title,
		"timestamp": timestamp,
		"content":   content,
	})
}
