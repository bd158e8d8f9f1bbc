package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/catalog"
	"github.com/sre-norns/catalog/pkg/records"
	"github.com/sre-norns/catalog/pkg/wyrd"
	"gopkg.in/yaml.v3"
)

// recordApi erases record and key types so that commands can address any kind by name
type recordApi interface {
	List(ctx context.Context) (any, error)
	Get(ctx context.Context, key string) (any, error)
	Create(ctx context.Context, fields map[string]string) (any, error)
	Update(ctx context.Context, key string, content []byte) (any, error)
	Delete(ctx context.Context, key string) (any, error)
}

type typedApi[T any, K wyrd.ResourceKey] struct {
	api catalog.ResourceApi[T, K]
}

func (a typedApi[T, K]) parseKey(key string) (K, error) {
	id, err := a.api.Descriptor().ParseKey(key)
	if err != nil {
		return id, fmt.Errorf("invalid %s key %q: %w", a.api.Descriptor().Name, key, err)
	}

	return id, nil
}

// Credentials travel with the client, the caller argument is not used by a remote API
func (a typedApi[T, K]) List(ctx context.Context) (any, error) {
	return a.api.List(ctx, access.Anonymous)
}

func (a typedApi[T, K]) Get(ctx context.Context, key string) (any, error) {
	id, err := a.parseKey(key)
	if err != nil {
		return nil, err
	}

	return a.api.Get(ctx, access.Anonymous, id)
}

func (a typedApi[T, K]) Create(ctx context.Context, fields map[string]string) (any, error) {
	entry, err := recordFromFields[T](fields)
	if err != nil {
		return nil, err
	}

	return a.api.Create(ctx, access.Anonymous, entry)
}

func (a typedApi[T, K]) Update(ctx context.Context, key string, content []byte) (any, error) {
	id, err := a.parseKey(key)
	if err != nil {
		return nil, err
	}

	var entry T
	if err := yaml.Unmarshal(content, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", a.api.Descriptor().Name, err)
	}

	return a.api.Update(ctx, access.Anonymous, id, entry)
}

func (a typedApi[T, K]) Delete(ctx context.Context, key string) (any, error) {
	id, err := a.parseKey(key)
	if err != nil {
		return nil, err
	}

	return a.api.Delete(ctx, access.Anonymous, id)
}

func apiForKind(client *catalog.RestClient, kind wyrd.Kind) (recordApi, error) {
	switch kind {
	case records.KindGame:
		return typedApi[records.Game, wyrd.ResourceID]{api: client.GetGamesAPI()}, nil
	case records.KindGrocery:
		return typedApi[records.Grocery, wyrd.ResourceID]{api: client.GetGroceriesAPI()}, nil
	case records.KindSong:
		return typedApi[records.Song, wyrd.ResourceID]{api: client.GetSongsAPI()}, nil
	case records.KindHotel:
		return typedApi[records.Hotel, string]{api: client.GetHotelsAPI()}, nil
	}

	return nil, fmt.Errorf("%w: %q", wyrd.ErrUnknownKind, kind)
}

// recordFromFields decodes name=value pairs into a record using its yaml field names.
// Values are plain scalars, so `year=1994` lands in an int field and `price=9.99` in a string one.
func recordFromFields[T any](fields map[string]string) (T, error) {
	var result T

	node := &yaml.Node{Kind: yaml.MappingNode}
	for name, value := range fields {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value},
		)
	}

	if err := node.Decode(&result); err != nil {
		return result, fmt.Errorf("failed to parse record fields: %w", err)
	}

	return result, nil
}

var ErrInvalidField = fmt.Errorf("expected field as name=value")

func parseFields(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, arg)
		}

		fields[name] = value
	}

	return fields, nil
}

func readContent(filename string) ([]byte, error) {
	if filename == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(filename)
}

type KindArg struct {
	Kind string `arg:"" enum:"games,groceries,songs,hotels" help:"Kind of records: ${enum}"`
}

func (k KindArg) api(cfg *commandContext) (recordApi, error) {
	client, err := cfg.NewAuthorizedClient()
	if err != nil {
		return nil, err
	}

	return apiForKind(client, wyrd.Kind(strings.ToLower(k.Kind)))
}

type ListCmd struct {
	KindArg `embed:""`
}

func (c *ListCmd) Run(cfg *commandContext) error {
	api, err := c.api(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := cfg.withTimeout()
	defer cancel()

	results, err := api.List(ctx)
	if err != nil {
		return err
	}

	return cfg.OutputFormatter(results)
}

type GetCmd struct {
	KindArg `embed:""`
	Key     string `arg:"" help:"Id of the record, or name for hotels"`
}

func (c *GetCmd) Run(cfg *commandContext) error {
	api, err := c.api(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := cfg.withTimeout()
	defer cancel()

	result, err := api.Get(ctx, c.Key)
	if err != nil {
		return err
	}

	return cfg.OutputFormatter(result)
}

type CreateCmd struct {
	KindArg `embed:""`
	Fields  []string `arg:"" help:"Record fields as name=value pairs"`
}

func (c *CreateCmd) Run(cfg *commandContext) error {
	api, err := c.api(cfg)
	if err != nil {
		return err
	}

	fields, err := parseFields(c.Fields)
	if err != nil {
		return err
	}

	ctx, cancel := cfg.withTimeout()
	defer cancel()

	result, err := api.Create(ctx, fields)
	if err != nil {
		return err
	}

	return cfg.OutputFormatter(result)
}

type UpdateCmd struct {
	KindArg `embed:""`
	Key     string `arg:"" help:"Id of the record, or name for hotels"`
	File    string `help:"A YAML or JSON file with the full record content, '-' to read stdin" short:"f" required:""`
}

func (c *UpdateCmd) Run(cfg *commandContext) error {
	content, err := readContent(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", c.File, err)
	}

	api, err := c.api(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := cfg.withTimeout()
	defer cancel()

	result, err := api.Update(ctx, c.Key, content)
	if err != nil {
		return err
	}

	return cfg.OutputFormatter(result)
}

type DeleteCmd struct {
	KindArg `embed:""`
	Key     string `arg:"" help:"Id of the record, or name for hotels"`
}

func (c *DeleteCmd) Run(cfg *commandContext) error {
	api, err := c.api(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := cfg.withTimeout()
	defer cancel()

	result, err := api.Delete(ctx, c.Key)
	if err != nil {
		return err
	}

	return cfg.OutputFormatter(result)
}
