package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/records"
	"github.com/sre-norns/catalog/pkg/wyrd"
)

// RestClient talks to a catalog API server.
// Caller identity comes from the bearer token, so the caller argument of client calls is ignored.
type RestClient struct {
	baseUrl    *url.URL
	httpClient *http.Client
	token      string
}

func NewRestClient(baseUrl, token string) (*RestClient, error) {
	u, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid API server URL %q: %w", baseUrl, err)
	}

	return &RestClient{
		baseUrl:    u,
		httpClient: &http.Client{},
		token:      token,
	}, nil
}

// WithHTTPClient replaces the default http client, i.e. for tests
func (c *RestClient) WithHTTPClient(httpClient *http.Client) *RestClient {
	c.httpClient = httpClient
	return c
}

func (c *RestClient) GetGamesAPI() GamesApi {
	return NewResourceClient(c, records.GameDescriptor)
}

func (c *RestClient) GetGroceriesAPI() GroceriesApi {
	return NewResourceClient(c, records.GroceryDescriptor)
}

func (c *RestClient) GetSongsAPI() SongsApi {
	return NewResourceClient(c, records.SongDescriptor)
}

func (c *RestClient) GetHotelsAPI() HotelsApi {
	return NewResourceClient(c, records.HotelDescriptor)
}

// CurrentUser asks the server who the token belongs to
func (c *RestClient) CurrentUser(ctx context.Context) (result CurrentUser, err error) {
	err = c.do(ctx, http.MethodGet, c.urlForPath("currentUser", nil), nil, &result)
	return
}

// Users lists identities known to the server, requires an admin token
func (c *RestClient) Users(ctx context.Context) (result []records.User, err error) {
	err = c.do(ctx, http.MethodGet, c.urlForPath("admin/users", nil), nil, &result)
	return
}

func (c *RestClient) SystemInfo(ctx context.Context) (result SystemInfo, err error) {
	err = c.do(ctx, http.MethodGet, c.urlForPath("systemInfo", nil), nil, &result)
	return
}

func (c *RestClient) urlForPath(apiPath string, query url.Values) *url.URL {
	rawQuery := ""
	if query != nil {
		rawQuery = query.Encode()
	}

	return &url.URL{
		Scheme:   c.baseUrl.Scheme,
		Opaque:   c.baseUrl.Opaque,
		User:     c.baseUrl.User,
		Host:     c.baseUrl.Host,
		Path:     path.Join(c.baseUrl.Path, "api", apiPath),
		RawQuery: rawQuery,
	}
}

func (c *RestClient) do(ctx context.Context, method string, apiUrl *url.URL, body any, dest any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, apiUrl.String(), reader)
	if err != nil {
		return err
	}
	request.Header.Add("Accept", "application/json")
	if body != nil {
		request.Header.Add("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Add("Authorization", fmt.Sprintf("Bearer %v", c.token))
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readApiError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

func readApiError(resp *http.Response) error {
	errorResponse := &ErrorResponse{
		Code:    resp.StatusCode,
		Message: resp.Status,
	}

	// Failed to unmarshal error message, fallback to HTTP status
	if err := json.NewDecoder(resp.Body).Decode(errorResponse); err != nil {
		errorResponse.Message = resp.Status
	}
	errorResponse.Code = resp.StatusCode

	return errorResponse
}

type resourceClient[T any, K wyrd.ResourceKey] struct {
	*RestClient

	desc wyrd.Descriptor[T, K]
}

// NewResourceClient returns a ResourceApi for the record type described by desc, backed by the REST API
func NewResourceClient[T any, K wyrd.ResourceKey](c *RestClient, desc wyrd.Descriptor[T, K]) ResourceApi[T, K] {
	return &resourceClient[T, K]{
		RestClient: c,
		desc:       desc,
	}
}

func (c *resourceClient[T, K]) Descriptor() wyrd.Descriptor[T, K] {
	return c.desc
}

// Authorize is decided by the server, the client can not know the roles of its token
func (c *resourceClient[T, K]) Authorize(access.Operation, access.Caller) error {
	return nil
}

func (c *resourceClient[T, K]) keyQuery(id K) url.Values {
	return url.Values{
		"id": []string{c.desc.FormatKey(id)},
	}
}

func (c *resourceClient[T, K]) List(ctx context.Context, _ access.Caller) (results []T, err error) {
	err = c.do(ctx, http.MethodGet, c.urlForPath(path.Join(string(c.desc.Kind), "all"), nil), nil, &results)
	return
}

func (c *resourceClient[T, K]) Get(ctx context.Context, _ access.Caller, id K) (result T, err error) {
	err = c.do(ctx, http.MethodGet, c.urlForPath(string(c.desc.Kind), c.keyQuery(id)), nil, &result)
	return
}

func (c *resourceClient[T, K]) Create(ctx context.Context, _ access.Caller, entry T) (result T, err error) {
	query, err := fieldsToQuery(&entry)
	if err != nil {
		return result, err
	}
	if c.desc.GeneratedKey {
		query.Del("id")
	}

	err = c.do(ctx, http.MethodPost, c.urlForPath(path.Join(string(c.desc.Kind), "post"), query), nil, &result)
	return
}

func (c *resourceClient[T, K]) Update(ctx context.Context, _ access.Caller, id K, entry T) (result T, err error) {
	err = c.do(ctx, http.MethodPut, c.urlForPath(string(c.desc.Kind), c.keyQuery(id)), &entry, &result)
	return
}

func (c *resourceClient[T, K]) Delete(ctx context.Context, _ access.Caller, id K) (result DeletedResponse, err error) {
	err = c.do(ctx, http.MethodDelete, c.urlForPath(string(c.desc.Kind), c.keyQuery(id)), nil, &result)
	return
}

// fieldsToQuery flattens a record into individual query parameters named after its json fields
func fieldsToQuery(entry any) (url.Values, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	fields := map[string]any{}
	if err := decoder.Decode(&fields); err != nil {
		return nil, err
	}

	query := url.Values{}
	for name, value := range fields {
		if value == nil {
			continue
		}
		query.Set(name, fmt.Sprint(value))
	}

	return query, nil
}
