package templates

import (
	"fmt"
	"html"
	"strings"
)

// RenderLoginPage generates the HTML for the login page.
func RenderLoginPage() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Civic Complaints - Login</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f3f4f6; margin: 0; }
    .card { max-width: 420px; margin: 80px auto; background: #fff; border-radius: 12px; padding: 32px; box-shadow: 0 1px 4px rgba(0,0,0,0.1); }
    h1 { font-size: 22px; color: #111827; }
    label { display: block; margin-top: 16px; color: #374151; font-size: 14px; }
    input, select { width: 100%; padding: 10px; margin-top: 6px; border: 1px solid #d1d5db; border-radius: 8px; }
    button { margin-top: 24px; width: 100%; padding: 12px; background: #2563eb; color: #fff; border: 0; border-radius: 8px; font-weight: 700; cursor: pointer; }
    .alt { margin-top: 16px; font-size: 14px; text-align: center; }
  </style>
</head>
<body>
  <div class="card">
    <h1>Civic Complaints</h1>
    <form method="post" action="/login" id="login-form">
      <label>Email <input type="email" name="email" required></label>
      <label>Password <input type="password" name="password" required></label>
      <label>Sign in as
        <select name="login_type">
          <option value="user">Citizen</option>
          <option value="verifier">Verifier</option>
          <option value="staff">Staff</option>
          <option value="admin">Admin</option>
        </select>
      </label>
      <button type="submit">Sign in</button>
    </form>
    <div class="alt"><a href="/register">Create an account</a></div>
  </div>
</body>
</html>`
}

// RenderRegisterPage generates the HTML for the registration page. A
// non-empty errMsg is inlined above the form.
func RenderRegisterPage(errMsg string) string {
	banner := ""
	if errMsg != "" {
		banner = fmt.Sprintf(`<div class="error">%s</div>`, html.EscapeString(errMsg))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Civic Complaints - Register</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f3f4f6; margin: 0; }
    .card { max-width: 420px; margin: 60px auto; background: #fff; border-radius: 12px; padding: 32px; box-shadow: 0 1px 4px rgba(0,0,0,0.1); }
    h1 { font-size: 22px; color: #111827; }
    label { display: block; margin-top: 12px; color: #374151; font-size: 14px; }
    input { width: 100%%; padding: 10px; margin-top: 6px; border: 1px solid #d1d5db; border-radius: 8px; }
    button { margin-top: 24px; width: 100%%; padding: 12px; background: #2563eb; color: #fff; border: 0; border-radius: 8px; font-weight: 700; cursor: pointer; }
    .error { background: #fef2f2; border: 1px solid #fecaca; color: #b91c1c; border-radius: 8px; padding: 12px; margin-top: 16px; font-size: 14px; }
  </style>
</head>
<body>
  <div class="card">
    <h1>Create your account</h1>
    %s
    <form method="post" action="/register">
      <label>First name <input type="text" name="first_name" required></label>
      <label>Last name <input type="text" name="last_name"></label>
      <label>Email <input type="email" name="email" required></label>
      <label>Phone number <input type="text" name="phone_number"></label>
      <label>Aadhar card <input type="text" name="aadhar_card"></label>
      <label>Password <input type="password" name="password" required minlength="6"></label>
      <button type="submit">Register</button>
    </form>
  </div>
</body>
</html>`, banner)
}

// RenderDashboardPage generates a minimal role dashboard shell; the role
// name drives the heading only, data is loaded by the client from the API.
func RenderDashboardPage(role string) string {
	title := role
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Civic Complaints - %s</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f3f4f6; margin: 0; }
    header { background: #1f2937; color: #fff; padding: 16px 24px; display: flex; justify-content: space-between; }
    main { max-width: 960px; margin: 24px auto; padding: 0 16px; }
  </style>
</head>
<body>
  <header>
    <strong>Civic Complaints - %s dashboard</strong>
    <a href="/logout" style="color:#fff">Log out</a>
  </header>
  <main id="app" data-role="%s"></main>
</body>
</html>`, title, title, html.EscapeString(role))
}
