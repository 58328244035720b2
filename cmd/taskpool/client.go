package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/kubev2v/taskpool/pkg/client"
)

type clientFlags struct {
	server     string
	token      string
	authSecret string
	authIssuer string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.server, "server", "http://localhost:8080", "taskpool server URL")
	cmd.Flags().StringVar(&f.token, "token", "", "Bearer token")
	cmd.Flags().StringVar(&f.authSecret, "auth-secret", "", "Sign a short-lived token with this HS256 secret")
	cmd.Flags().StringVar(&f.authIssuer, "auth-issuer", "taskpool", "Issuer of the signed token")
}

func (f *clientFlags) client() (*client.Client, error) {
	token := f.token
	if token == "" && f.authSecret != "" {
		var err error
		token, err = client.NewToken([]byte(f.authSecret), f.authIssuer, "taskpool-cli", 5*time.Minute)
		if err != nil {
			return nil, err
		}
	}
	return client.NewClient(f.server, client.WithToken(token))
}
