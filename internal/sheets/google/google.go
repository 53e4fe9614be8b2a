package google

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"neirocalendar/internal/core"
	"neirocalendar/internal/log"
	"neirocalendar/internal/metrics"
	ports "neirocalendar/internal/sheets"
)

const (
	// lastColumn is the rightmost column written for a record.
	lastColumn = "D"
	// raw keeps dates as text instead of letting Sheets reformat them.
	valueInput = "RAW"
)

var header = []any{"ID", "Date", "Person", "Attended"}

// Client mirrors attendance records into one sheet, one row per record:
// ID | Date | Person | Attended. Row 1 holds the header.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var _ ports.AttendanceMirror = (*Client)(nil)

// New creates a client with the given API options. Most callers want
// NewWithCredentials.
func New(ctx context.Context, spreadsheetID, sheetName string, logger *log.Logger, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}
	if logger == nil {
		logger = log.Discard()
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentSheets),
	}, nil
}

// NewWithCredentials authenticates with a service account key.
func NewWithCredentials(ctx context.Context, spreadsheetID, sheetName string, credentialsJSON []byte, logger *log.Logger) (*Client, error) {
	if len(credentialsJSON) == 0 {
		return nil, errors.New("missing service account credentials")
	}
	return New(ctx, spreadsheetID, sheetName, logger,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	)
}

// UpsertRecord rewrites the row holding r.ID, or appends one.
func (c *Client) UpsertRecord(ctx context.Context, r core.AttendanceRecord) (err error) {
	defer observe("upsert", &err)
	if r.ID <= 0 {
		return fmt.Errorf("record has no id")
	}

	ids, err := c.readIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		if err := c.update(ctx, c.rowRange(1, 1), [][]any{header}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		ids = []string{"ID"}
	}

	row := findRow(ids, r.ID)
	if row == 0 {
		row = len(ids) + 1
	}
	if err := c.update(ctx, c.rowRange(row, row), [][]any{recordRow(r)}); err != nil {
		return fmt.Errorf("write record %d: %w", r.ID, err)
	}

	c.logger.DebugContext(ctx, "Mirrored record", "id", r.ID, "row", row)
	return nil
}

// DeleteRecord blanks the row holding id. The emptied row is dropped on the
// next ReplaceAll.
func (c *Client) DeleteRecord(ctx context.Context, id int64) (err error) {
	defer observe("delete", &err)

	ids, err := c.readIDs(ctx)
	if err != nil {
		return err
	}
	row := findRow(ids, id)
	if row == 0 {
		c.logger.DebugContext(ctx, "Record not in mirror", "id", id)
		return nil
	}

	rng := c.rowRange(row, row)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

func (c *Client) ReplaceAll(ctx context.Context, records []core.AttendanceRecord) (err error) {
	defer observe("replace", &err)

	all := fmt.Sprintf("%s!A:%s", c.sheetName, lastColumn)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, all, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", all, err)
	}

	values := make([][]any, 0, len(records)+1)
	values = append(values, header)
	for _, r := range records {
		values = append(values, recordRow(r))
	}
	if err := c.update(ctx, c.rowRange(1, len(values)), values); err != nil {
		return fmt.Errorf("write %d records: %w", len(records), err)
	}

	c.logger.InfoContext(ctx, "Mirror rewritten", "records", len(records))
	return nil
}

// readIDs returns column A, one entry per sheet row.
func (c *Client) readIDs(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	ids := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			ids[i] = strings.TrimSpace(fmt.Sprint(row[0]))
		}
	}
	return ids, nil
}

func (c *Client) update(ctx context.Context, rng string, values [][]any) error {
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption(valueInput).Context(ctx).Do()
	return err
}

func (c *Client) rowRange(from, to int) string {
	return fmt.Sprintf("%s!A%d:%s%d", c.sheetName, from, lastColumn, to)
}

// findRow returns the 1-based sheet row holding id, or 0.
func findRow(ids []string, id int64) int {
	for i, v := range ids {
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil && n == id {
			return i + 1
		}
	}
	return 0
}

func recordRow(r core.AttendanceRecord) []any {
	return []any{r.ID, r.VisitDate.String(), r.PersonName, r.Attended}
}

func observe(op string, err *error) {
	metrics.SheetsWrites.WithLabelValues(op, metrics.Result(*err)).Inc()
}
