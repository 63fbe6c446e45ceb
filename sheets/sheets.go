// Package sheets talks to the society spreadsheet through its web app.
//
// The web app answers GET {url}?sheet=<name> with the sheet content as JSON and
// appends a row on POST {url}?sheet=<name> with a JSON array body.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/dues"
	"github.com/etnz/dues/adapter"
	"go.uber.org/zap"
)

// Sheet names of the society spreadsheet.
const (
	SheetOwners      = "Owners"
	SheetCollections = "Collections"
	SheetExpenses    = "Expenses"
)

// DefaultPath is where the rows are in the web app answer.
const DefaultPath = "$.values"

// Client is a dues.Store on the spreadsheet web app.
//
// Nothing is cached: every read fetches the sheet again.
type Client struct {
	URL  string // URL of the deployed web app.
	Path string // Path is the JSONPath of the rows in a GET answer, DefaultPath if empty.

	HTTP   *http.Client
	Logger *zap.Logger

	OwnersSchema      adapter.Schema
	CollectionsSchema adapter.Schema
	ExpensesSchema    adapter.Schema
}

// New returns a client on the web app at addr with the default schemas.
func New(addr string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		URL:               addr,
		Path:              DefaultPath,
		HTTP:              &http.Client{Timeout: timeout},
		Logger:            logger,
		OwnersSchema:      adapter.Owners,
		CollectionsSchema: adapter.Collections,
		ExpensesSchema:    adapter.Expenses,
	}
}

func (c *Client) client() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// sheetURL returns the web app url for sheet.
func (c *Client) sheetURL(sheet string) (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("invalid web app url %q: %w", c.URL, err)
	}
	q := u.Query()
	q.Set("sheet", sheet)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// jget performs an HTTP GET request and decodes the JSON answer in data.
// Numbers are decoded as json.Number.
func (c *Client) jget(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.logger().Debug("sheet fetched", zap.String("method", req.Method), zap.String("host", req.URL.Host), zap.String("status", resp.Status))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(data)
}

// jpost performs an HTTP POST request with a JSON body. Any status but 200 is an error.
func (c *Client) jpost(ctx context.Context, addr string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	c.logger().Debug("row posted", zap.String("host", req.URL.Host), zap.String("status", resp.Status))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http POST %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return nil
}

// Table fetches a whole sheet, header row included.
func (c *Client) Table(ctx context.Context, sheet string) (adapter.Table, error) {
	addr, err := c.sheetURL(sheet)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := c.jget(ctx, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error fetching sheet %q: %w", sheet, err)
	}
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing sheet %q: %q %w", sheet, path, err)
	}
	return toTable(jval)
}

// toTable converts the rows found by jsonpath. Rows are either arrays of cells
// or, for web apps that answer with records, objects whose keys become the header.
func toTable(jval any) (adapter.Table, error) {
	list, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("rows are not a list: %T", jval)
	}
	// jsonpath may wrap a single match in a list.
	if len(list) == 1 {
		if inner, ok := list[0].([]any); ok && (len(inner) == 0 || isRow(inner[0])) {
			list = inner
		}
	}
	if len(list) == 0 {
		return adapter.Table{}, nil
	}
	if _, ok := list[0].(map[string]any); ok {
		return recordsToTable(list)
	}
	t := make(adapter.Table, 0, len(list))
	for i, r := range list {
		row, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not a list: %T", i, r)
		}
		t = append(t, row)
	}
	return t, nil
}

func isRow(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return true
	}
	return false
}

// recordsToTable builds a table from a list of objects. The header is the keys
// of the first record, in a stable order.
func recordsToTable(list []any) (adapter.Table, error) {
	first := list[0].(map[string]any)
	header := slices.Sorted(maps.Keys(first))
	t := adapter.Table{make([]any, len(header))}
	for i, h := range header {
		t[0][i] = h
	}
	for i, r := range list {
		rec, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not an object: %T", i, r)
		}
		row := make([]any, len(header))
		for j, h := range header {
			row[j] = rec[h]
		}
		t = append(t, row)
	}
	return t, nil
}

func (c *Client) Roster(ctx context.Context) ([]dues.Unit, error) {
	t, err := c.Table(ctx, SheetOwners)
	if err != nil {
		return nil, dues.Unavailable("read roster", err)
	}
	units, err := t.Units(c.OwnersSchema)
	if err != nil {
		return nil, dues.Unavailable("read roster", err)
	}
	return units, nil
}

func (c *Client) Payments(ctx context.Context) ([]dues.PaymentRecord, error) {
	t, err := c.Table(ctx, SheetCollections)
	if err != nil {
		return nil, dues.Unavailable("read payments", err)
	}
	payments, err := t.Payments(c.CollectionsSchema)
	if err != nil {
		return nil, dues.Unavailable("read payments", err)
	}
	return payments, nil
}

func (c *Client) Expenses(ctx context.Context) ([]dues.ExpenseRecord, error) {
	t, err := c.Table(ctx, SheetExpenses)
	if err != nil {
		return nil, dues.Unavailable("read expenses", err)
	}
	expenses, err := t.Expenses(c.ExpensesSchema)
	if err != nil {
		return nil, dues.Unavailable("read expenses", err)
	}
	return expenses, nil
}

// AppendPayment posts [date, flat, months, amount, mode] to the Collections sheet.
func (c *Client) AppendPayment(ctx context.Context, rec dues.PaymentRecord) error {
	payload := []any{rec.PaidAt.Format(dues.SheetDateFormat), rec.Unit, rec.Months, dues.ParseAmount(rec.Amount), rec.Mode}
	return c.append(ctx, "append payment", SheetCollections, payload)
}

// AppendExpense posts [date, month, head, desc, amount, mode] to the Expenses sheet.
func (c *Client) AppendExpense(ctx context.Context, rec dues.ExpenseRecord) error {
	payload := []any{rec.PaidAt.Format(dues.SheetDateFormat), rec.Month, rec.Head, rec.Description, dues.ParseAmount(rec.Amount), rec.Mode}
	return c.append(ctx, "append expense", SheetExpenses, payload)
}

func (c *Client) append(ctx context.Context, op, sheet string, payload []any) error {
	addr, err := c.sheetURL(sheet)
	if err != nil {
		return dues.Unavailable(op, err)
	}
	if err := c.jpost(ctx, addr, payload); err != nil {
		return dues.Unavailable(op, err)
	}
	return nil
}

var _ dues.Store = (*Client)(nil)
