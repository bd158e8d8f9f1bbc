package main

import (
	"fmt"
	"time"

	"github.com/sre-norns/catalog/pkg/access"
)

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(cfg *commandContext) error {
	client, err := cfg.NewAuthorizedClient()
	if err != nil {
		return err
	}

	ctx, cancel := cfg.withTimeout()
	defer cancel()

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return err
	}

	return cfg.OutputFormatter(user)
}

type UsersCmd struct{}

func (c *UsersCmd) Run(cfg *commandContext) error {
	client, err := cfg.NewAuthorizedClient()
	if err != nil {
		return err
	}

	ctx, cancel := cfg.withTimeout()
	defer cancel()

	users, err := client.Users(ctx)
	if err != nil {
		return err
	}

	return cfg.OutputFormatter(users)
}

type InfoCmd struct{}

func (c *InfoCmd) Run(cfg *commandContext) error {
	client, err := cfg.NewClient()
	if err != nil {
		return err
	}

	ctx, cancel := cfg.withTimeout()
	defer cancel()

	info, err := client.SystemInfo(ctx)
	if err != nil {
		return err
	}

	return cfg.OutputFormatter(info)
}

type TokenCmd struct {
	Email  string        `arg:"" help:"Email of the identity to issue the token for"`
	Name   string        `help:"Full name of the identity"`
	Secret string        `help:"Shared secret the API server verifies tokens with" env:"CATALOG_JWT_SECRET" required:""`
	Issuer string        `help:"Issuer claim, must match the server setting if it has one" env:"CATALOG_JWT_ISSUER"`
	TTL    time.Duration `help:"Lifetime of the token" default:"24h" name:"ttl"`
}

func (c *TokenCmd) Run(_ *commandContext) error {
	issuer, err := access.NewTokenIssuer([]byte(c.Secret), c.Issuer)
	if err != nil {
		return err
	}

	token, err := issuer.Issue(access.Claims{Email: c.Email, Name: c.Name}, c.TTL)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
