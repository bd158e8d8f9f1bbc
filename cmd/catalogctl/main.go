package main

import (
	"context"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sre-norns/catalog/pkg/catalog"
	"github.com/sre-norns/catalog/pkg/grace"
)

type ApiClientConfig struct {
	ApiServerAddress string        `help:"URL address of the API server" default:"http://localhost:8080/" env:"CATALOG_SERVER"`
	Token            string        `help:"Bearer token to authenticate with" env:"CATALOG_TOKEN"`
	Timeout          time.Duration `help:"Maximum duration of a single API call" default:"30s"`
}

func (c *ApiClientConfig) NewClient() (*catalog.RestClient, error) {
	return catalog.NewRestClient(c.ApiServerAddress, c.Token)
}

// NewAuthorizedClient is NewClient for commands that anonymous callers are never allowed to run
func (c *ApiClientConfig) NewAuthorizedClient() (*catalog.RestClient, error) {
	if err := grace.Required("bearer token", c.Token, "set --token flag or CATALOG_TOKEN environment variable, `catalogctl token` can mint one"); err != nil {
		return nil, err
	}

	return c.NewClient()
}

type commandContext struct {
	*ApiClientConfig

	OutputFormatter formatter
	Context         context.Context
}

func (c *commandContext) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, c.Timeout)
}

type outputFormat string

func (f outputFormat) AfterApply(cfg *commandContext) (err error) {
	cfg.OutputFormatter, err = getFormatter(f)
	return err
}

var appCli struct {
	ApiClientConfig `embed:""`

	Format outputFormat `enum:"yaml,yml,json,table" help:"Data output format" default:"yml" short:"o"`

	List   ListCmd   `cmd:"" help:"List all records of a kind"`
	Get    GetCmd    `cmd:"" help:"Get a single record"`
	Create CreateCmd `cmd:"" help:"Create a new record from field=value pairs"`
	Update UpdateCmd `cmd:"" help:"Replace a record with the content of a file"`
	Delete DeleteCmd `cmd:"" help:"Delete a record"`

	Whoami WhoamiCmd `cmd:"" help:"Show the identity and roles of the token in use"`
	Users  UsersCmd  `cmd:"" help:"List users known to the server (ADMIN only)"`
	Info   InfoCmd   `cmd:"" help:"Show the API server build info"`

	Token TokenCmd `cmd:"" help:"Mint a bearer token signed with the shared secret"`
	Watch WatchCmd `cmd:"" help:"Print record change events as they are published"`
}

func main() {
	// Optional, lets users keep CATALOG_TOKEN and friends in a .env file
	_ = godotenv.Load()

	mainContext := grace.SetupSignalHandler()
	cfg := &commandContext{
		Context:         mainContext,
		OutputFormatter: yamlFormatter,
		ApiClientConfig: &appCli.ApiClientConfig,
	}
	appCtx := kong.Parse(&appCli,
		kong.Name("catalogctl"),
		kong.Description("Catalog command line tool"),
		kong.Bind(cfg),
	)

	grace.SuccessRequired(appCtx.Run(cfg), appCtx.Command()+" failed")
}
