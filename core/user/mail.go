package user

import (
	"net/mail"
	"strings"
	"text/template"

	"github.com/trezcool/cgpa/core"
)

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`Hi {{.Name}},

Welcome to {{.AppName}}! Upload your results to follow your CGPA per level & semester,
preview how a course would move it and get study suggestions.

{{.FrontendBaseURL}}
`))

	passwordResetTmpl = template.Must(template.New("password_reset").Parse(`Hi {{.Name}},

You're receiving this email because you requested a password reset for your {{.AppName}} account.
Please go to the following page and choose a new password:

{{.FrontendBaseURL}}/password-reset/{{.UID}}/{{.Token}}

If you did not request it, you can safely ignore this email.
`))
)

type mailData struct {
	Name            string
	AppName         string
	FrontendBaseURL string
	UID             string
	Token           string
}

func newMailData(usr User, conf *core.Config) mailData {
	return mailData{
		Name:            usr.Name,
		AppName:         conf.AppName,
		FrontendBaseURL: strings.TrimSuffix(conf.Server.FrontendBaseURL, "/"),
	}
}

func newMessage(usr User, subject string, tmpl *template.Template, data mailData) *core.EmailMessage {
	var body strings.Builder
	_ = tmpl.Execute(&body, data) // data always matches the template
	return &core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: subject,
		Body:    body.String(),
	}
}

func welcomeMessage(usr User, conf *core.Config) *core.EmailMessage {
	return newMessage(usr, "Welcome", welcomeTmpl, newMailData(usr, conf))
}

func passwordResetMessage(usr User, token string, conf *core.Config) *core.EmailMessage {
	data := newMailData(usr, conf)
	data.UID = EncodeUID(usr)
	data.Token = token
	return newMessage(usr, "Password reset", passwordResetTmpl, data)
}
