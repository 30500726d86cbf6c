package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/ports"
)

// sessionHeader carries the session token on every authenticated request.
// The login endpoint issues the token in the same response header.
const sessionHeader = "X-Session-Id"

const defaultPageSize = 100

// Config holds the ERP connection settings.
type Config struct {
	BaseURL  string
	Username string
	Password string
	// PageSize is the $top value used when paging list endpoints.
	// Defaults to 100.
	PageSize int
	// HTTPClient defaults to a client with a 30s timeout. The timeout is
	// treated as a fixed external parameter; nothing here tunes it.
	HTTPClient *http.Client
	// RequestObserver, when set, is called with the resource path and
	// duration of every completed HTTP call.
	RequestObserver func(resource string, d time.Duration)
}

// Client talks to the ERP API. It authenticates through a SessionManager
// and retries each rejected request at most once after a relogin.
type Client struct {
	cfg      Config
	http     *http.Client
	sessions *SessionManager
	logger   zerolog.Logger
}

// NewClient creates an ERP client whose session token is persisted in the
// given store.
func NewClient(cfg Config, store ports.SessionStore, logger zerolog.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	c := &Client{
		cfg:    cfg,
		http:   cfg.HTTPClient,
		logger: logger,
	}
	c.sessions = NewSessionManager(store, c.doLogin, logger)
	return c
}

// Sessions exposes the session manager, mainly so startup code can perform
// an eager login.
func (c *Client) Sessions() *SessionManager {
	return c.sessions
}

// doLogin posts the configured credentials and extracts the issued session
// token. The token arrives in a response header; the body carries a field
// that superficially resembles it, so both are checked with the header
// taking precedence.
func (c *Client) doLogin(ctx context.Context) (string, error) {
	payload, err := json.Marshal(loginRequest{Username: c.cfg.Username, Password: c.cfg.Password})
	if err != nil {
		return "", fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/login"), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	c.observe("/login", start)
	if err != nil {
		return "", fmt.Errorf("login call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &domain.AuthenticationError{Reason: "credentials rejected"}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.RemoteError{StatusCode: resp.StatusCode, Body: readSnippet(resp.Body)}
	}

	token := resp.Header.Get(sessionHeader)
	if token == "" {
		var body loginResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			token = body.SessionID
		}
	}
	if token == "" {
		return "", &domain.AuthenticationError{Reason: "login response carried no session token"}
	}

	c.logger.Info().Msg("ERP login successful")
	return token, nil
}

// request issues one authenticated call, delegating the bounded
// relogin-and-retry policy to the session manager.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.sessions.WithAuthRetry(ctx, func(token string) error {
		return c.do(ctx, method, path, query, body, out, token)
	})
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, token string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.endpoint(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sessionHeader, token)

	start := time.Now()
	resp, err := c.http.Do(req)
	c.observe(path, start)
	if err != nil {
		return fmt.Errorf("erp call failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &domain.RemoteError{StatusCode: resp.StatusCode, Body: readSnippet(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode erp response: %w", err)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + path
}

func (c *Client) observe(resource string, start time.Time) {
	if c.cfg.RequestObserver != nil {
		c.cfg.RequestObserver(resource, time.Since(start))
	}
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(b)
}

// fetchAll pages through a list endpoint, advancing $skip by $top until a
// page comes back short. The remote never signals end-of-collection
// explicitly; a short page is the only end signal. The same loop serves every
// listable resource.
func fetchAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	top := c.cfg.PageSize
	var all []T
	for skip := 0; ; skip += top {
		page := url.Values{}
		for k, vs := range query {
			page[k] = vs
		}
		page.Set("$top", strconv.Itoa(top))
		page.Set("$skip", strconv.Itoa(skip))

		var records []T
		if err := c.request(ctx, http.MethodGet, path, page, nil, &records); err != nil {
			return nil, err
		}
		all = append(all, records...)
		if len(records) < top {
			return all, nil
		}
	}
}

// Catalog

// FetchParts returns every active, non-blocked part together with its
// extra-field bag.
func (c *Client) FetchParts(ctx context.Context) ([]domain.CatalogItem, error) {
	q := url.Values{}
	q.Set("$filter", activePartPredicate)
	q.Set("$expand", "ExtraFields,ProductGroup,PartCode")
	parts, err := fetchAll[erpPart](ctx, c, "/api/v1/Inventory/Parts", q)
	if err != nil {
		return nil, err
	}
	items := make([]domain.CatalogItem, 0, len(parts))
	for _, p := range parts {
		items = append(items, p.toDomain())
	}
	return items, nil
}

// FetchPartsByNumbers fetches the parts with the given part numbers. The
// active-status predicate still applies, so retired parts silently drop
// out of the result.
func (c *Client) FetchPartsByNumbers(ctx context.Context, partNumbers []string) ([]domain.CatalogItem, error) {
	if len(partNumbers) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("$filter", andAll(activePartPredicate, anyOf("PartNumber", partNumbers)))
	q.Set("$expand", "ExtraFields,ProductGroup,PartCode")
	parts, err := fetchAll[erpPart](ctx, c, "/api/v1/Inventory/Parts", q)
	if err != nil {
		return nil, err
	}
	items := make([]domain.CatalogItem, 0, len(parts))
	for _, p := range parts {
		items = append(items, p.toDomain())
	}
	return items, nil
}

// FetchPartsByIDs is FetchPartsByNumbers keyed by the ERP's internal part
// IDs instead of the natural key.
func (c *Client) FetchPartsByIDs(ctx context.Context, ids []string) ([]domain.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("$filter", andAll(activePartPredicate, anyOf("Id", ids)))
	q.Set("$expand", "ExtraFields,ProductGroup,PartCode")
	parts, err := fetchAll[erpPart](ctx, c, "/api/v1/Inventory/Parts", q)
	if err != nil {
		return nil, err
	}
	items := make([]domain.CatalogItem, 0, len(parts))
	for _, p := range parts {
		items = append(items, p.toDomain())
	}
	return items, nil
}

// Customers

func (c *Client) FetchCustomers(ctx context.Context) ([]domain.CustomerRecord, error) {
	customers, err := fetchAll[erpCustomer](ctx, c, "/api/v1/Sales/Customers", url.Values{})
	if err != nil {
		return nil, err
	}
	records := make([]domain.CustomerRecord, 0, len(customers))
	for _, cust := range customers {
		records = append(records, cust.toDomain())
	}
	return records, nil
}

func (c *Client) FetchCustomersByIDs(ctx context.Context, ids []string) ([]domain.CustomerRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("$filter", anyOf("Id", ids))
	customers, err := fetchAll[erpCustomer](ctx, c, "/api/v1/Sales/Customers", q)
	if err != nil {
		return nil, err
	}
	records := make([]domain.CustomerRecord, 0, len(customers))
	for _, cust := range customers {
		records = append(records, cust.toDomain())
	}
	return records, nil
}

// FetchReferencePersons returns the contacts owned by one ERP customer.
func (c *Client) FetchReferencePersons(ctx context.Context, customerID string) ([]domain.ReferencePerson, error) {
	q := url.Values{}
	q.Set("$filter", eq("CustomerId", customerID))
	q.Set("$expand", "Categories")
	persons, err := fetchAll[erpReferencePerson](ctx, c, "/api/v1/Sales/ReferencePersons", q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ReferencePerson, 0, len(persons))
	for _, p := range persons {
		out = append(out, p.toDomain())
	}
	return out, nil
}

// Stock

// FetchLatestStockTransaction returns the most recent stock ledger entry
// for a part, or nil when the part has no transactions.
func (c *Client) FetchLatestStockTransaction(ctx context.Context, partID string) (*domain.StockTransaction, error) {
	q := url.Values{}
	q.Set("$filter", eq("PartId", partID))
	q.Set("$orderby", "Created desc")
	q.Set("$top", "1")

	var txs []erpStockTransaction
	if err := c.request(ctx, http.MethodGet, "/api/v1/Inventory/StockTransactions", q, nil, &txs); err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, nil
	}
	tx := txs[0].toDomain()
	return &tx, nil
}

// Change log

// FetchChangeLogs returns every change-log entry of the given entity type
// modified after the cutoff.
func (c *Client) FetchChangeLogs(ctx context.Context, entityTypeID int, since time.Time) ([]domain.ChangeLogEntry, error) {
	q := url.Values{}
	q.Set("$filter", andAll(
		fmt.Sprintf("EntityTypeId eq %d", entityTypeID),
		modifiedAfter("ModifiedTimestamp", since),
	))
	logs, err := fetchAll[erpChangeLog](ctx, c, "/api/v1/Common/ChangeLogs", q)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.ChangeLogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, l.toDomain())
	}
	return entries, nil
}

// Pricing

// FetchCustomerPartPrice returns the price linked directly to a
// (customer, part) pair, or nil when no link exists.
func (c *Client) FetchCustomerPartPrice(ctx context.Context, customerID, partID string) (*domain.PriceRow, error) {
	q := url.Values{}
	q.Set("$filter", andAll(eq("CustomerId", customerID), eq("PartId", partID)))
	q.Set("$top", "1")

	var rows []erpPriceRow
	if err := c.request(ctx, http.MethodGet, "/api/v1/Sales/CustomerPartLinks", q, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0].toDomain()
	return &row, nil
}

// FetchPriceListRow returns a part's row on a price list, or nil when the
// list has no row for it.
func (c *Client) FetchPriceListRow(ctx context.Context, priceListID, partID string) (*domain.PriceRow, error) {
	q := url.Values{}
	q.Set("$filter", andAll(eq("PriceListId", priceListID), eq("PartId", partID)))
	q.Set("$top", "1")

	var rows []erpPriceRow
	if err := c.request(ctx, http.MethodGet, "/api/v1/Sales/SalesPrices", q, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0].toDomain()
	return &row, nil
}

// FetchCustomerPriceListID resolves which price list a customer is
// assigned to. Empty when the customer has none.
func (c *Client) FetchCustomerPriceListID(ctx context.Context, customerID string) (string, error) {
	q := url.Values{}
	q.Set("$filter", eq("Id", customerID))
	q.Set("$select", "Id,PriceListId")
	q.Set("$top", "1")

	var customers []erpCustomer
	if err := c.request(ctx, http.MethodGet, "/api/v1/Sales/Customers", q, nil, &customers); err != nil {
		return "", err
	}
	if len(customers) == 0 {
		return "", nil
	}
	return customers[0].PriceListID, nil
}
