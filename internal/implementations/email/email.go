package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"resetpass/internal/core/domain/account"
	"resetpass/internal/core/domain/token"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type TokenSender struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	sender           string
	resetTemplate    string
	resetPageBaseUrl url.URL
}

func NewTokenSender(
	awsConfig aws.Config,
	sender string,
	resetTemplate string,
	resetPageBaseUrl url.URL,
) *TokenSender {
	return &TokenSender{
		ses:              ses.NewFromConfig(awsConfig),
		sender:           sender,
		resetTemplate:    resetTemplate,
		resetPageBaseUrl: resetPageBaseUrl,
	}
}

func (s *TokenSender) SendToken(ctx context.Context, a account.Account, t token.ResetToken) error {
	if a.Email == "" {
		return errors.New("account email is not defined")
	}

	templateParamsBytes, err := json.Marshal(
		resetTemplateParams{
			ResetToken: string(t.Key),
			ResetUrl:   s.resetPageBaseUrl.JoinPath(string(t.Key)).String(),
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(a.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.resetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

type resetTemplateParams struct {
	ResetToken string `json:"resetToken"`
	ResetUrl   string `json:"resetUrl"`
}
