package email

// SendWelcomeEmail sends a welcome email to a new user.
func (c *Client) SendWelcomeEmail(to, fullName string) error {
	data := map[string]string{
		"UserName": fullName,
	}

	return c.SendEmail(
		to,
		"Welcome to icangrow!",
		TemplateWelcome,
		data,
	)
}
