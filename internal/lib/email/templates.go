package email

// Template names an HTML email template under templates/emails/.
type Template string

const (
	// TemplateWelcome greets a freshly signed-up user.
	TemplateWelcome Template = "welcome"
)
