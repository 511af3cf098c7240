package ports

import "context"

// EmailService delivers account mail. Only the password reset message exists;
// the link it carries embeds the raw single-use token.
type EmailService interface {
	SendPasswordResetEmail(ctx context.Context, email, token, userName string) error
}
