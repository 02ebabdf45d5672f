package sheets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/reservoirwatch/dam-levels/internal/domain"
	"github.com/reservoirwatch/dam-levels/internal/observability"
)

// ErrLoad marks any failure to turn an endpoint into a raw table:
// transport errors, non-200 statuses, non-CSV payloads, or a sheet with
// no data rows.
var ErrLoad = errors.New("sheet load failed")

// Client fetches published CSV exports over HTTP.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a sheet loader with a bounded request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchTable downloads and parses one CSV export. Header labels are
// whitespace-trimmed; cell values are kept verbatim. Rows shorter than
// the header leave their trailing cells absent rather than failing.
func (c *Client) FetchTable(ctx context.Context, endpoint string) (domain.RawTable, error) {
	if endpoint == "" {
		return c.fail(fmt.Errorf("%w: no endpoint configured", ErrLoad))
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return c.fail(fmt.Errorf("%w: create request: %w", ErrLoad, err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %w", ErrLoad, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.fail(fmt.Errorf("%w: status %d from %s", ErrLoad, resp.StatusCode, endpoint))
	}
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "text/html") {
		// Google answers HTML (a login or consent page) instead of CSV
		// when the sheet is not shared publicly.
		return c.fail(fmt.Errorf("%w: got %q, is the sheet shared publicly?", ErrLoad, ct))
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return c.fail(fmt.Errorf("%w: parse csv: %w", ErrLoad, err))
	}
	if len(records) < 2 {
		return c.fail(fmt.Errorf("%w: no data rows", ErrLoad))
	}

	table := tableFromRecords(records)
	c.metrics.SheetFetches.WithLabelValues("success").Inc()
	c.metrics.SheetFetchDuration.Observe(time.Since(start).Seconds())
	c.logger.Debug("sheet fetched",
		"endpoint", endpoint,
		"columns", len(table.Columns),
		"rows", len(table.Rows),
		"elapsed", time.Since(start),
	)
	return table, nil
}

func (c *Client) fail(err error) (domain.RawTable, error) {
	c.metrics.SheetFetches.WithLabelValues("error").Inc()
	return domain.RawTable{}, err
}

func tableFromRecords(records [][]string) domain.RawTable {
	header := records[0]
	columns := make([]string, len(header))
	for i, label := range header {
		if i == 0 {
			// Google's export prepends a UTF-8 BOM.
			label = strings.TrimPrefix(label, "\ufeff")
		}
		columns[i] = strings.TrimSpace(label)
	}

	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(domain.RawRow, len(columns))
		for i, label := range columns {
			if i < len(record) {
				row[label] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return domain.RawTable{Columns: columns, Rows: rows}
}
