package cli

import (
	"hope-store/internal/client"
	"hope-store/internal/model"
	"hope-store/internal/newsletter"

	"github.com/spf13/cobra"
)

// SignupView is the outcome of a newsletter signup.
type SignupView struct {
	State             string `json:"state"`
	Message           string `json:"message"`
	AlreadySubscribed bool   `json:"alreadySubscribed"`
}

// NewNewsletterCommand creates the newsletter command.
func NewNewsletterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsletter",
		Short: "Newsletter signups",
	}

	cmd.AddCommand(newNewsletterSubscribeCommand(rootOpts))

	return cmd
}

func newNewsletterSubscribeCommand(rootOpts *RootOptions) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:           "subscribe <email>",
		Short:         "Sign an email address up for the newsletter",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			if rootOpts.APIURL == "" {
				formatter.Error(ErrCodeMissingEndpoint, "--api is required to subscribe")
				return NewExitError(ExitCommandError, "--api is required to subscribe")
			}

			form := newsletter.NewForm(client.New(rootOpts.APIURL, newLogger(rootOpts, cmd)), newLogger(rootOpts, cmd))
			form.SetEmail(args[0])

			result, err := form.Submit(cmd.Context(), source)
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error())
				return WrapExitError(ExitFailure, "signup failed", err)
			}

			view := SignupView{
				State:             result.State.String(),
				Message:           result.Feedback,
				AlreadySubscribed: result.AlreadySubscribed,
			}
			if result.State == newsletter.StateError {
				formatter.Error(ErrCodeSignupFailed, result.Feedback)
				return NewExitError(ExitFailure, result.Feedback)
			}
			return formatter.Success(view, result.Feedback)
		},
	}

	cmd.Flags().StringVar(&source, "source", model.DefaultSignupSource, "where the signup came from")

	return cmd
}
