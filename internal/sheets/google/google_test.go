package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"

	"neirocalendar/internal/core"
)

var rowRangeRe = regexp.MustCompile(`!A(\d+):D(\d+)$`)

// fakeSheet serves the subset of the Sheets values API the client uses,
// backed by an in-memory grid.
type fakeSheet struct {
	mu    sync.Mutex
	rows  [][]any
	calls []string
	fail  bool
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		http.Error(w, `{"error":{"code":400,"message":"bad range"}}`, http.StatusBadRequest)
		return
	}

	i := strings.Index(r.URL.Path, "/values/")
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	rng := r.URL.Path[i+len("/values/"):]

	switch {
	case r.Method == http.MethodGet:
		f.calls = append(f.calls, "get "+rng)
		values := make([][]any, len(f.rows))
		for i, row := range f.rows {
			values[i] = []any{}
			if len(row) > 0 {
				values[i] = []any{row[0]}
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"range": rng, "values": values})
	case r.Method == http.MethodPost && strings.HasSuffix(rng, ":clear"):
		rng = strings.TrimSuffix(rng, ":clear")
		f.calls = append(f.calls, "clear "+rng)
		if from, to, ok := parseRows(rng); ok {
			for n := from; n <= to && n <= len(f.rows); n++ {
				f.rows[n-1] = nil
			}
		} else {
			f.rows = nil
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"clearedRange": rng})
	case r.Method == http.MethodPut:
		f.calls = append(f.calls, "update "+rng)
		var body struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		from, _, _ := parseRows(rng)
		for i, row := range body.Values {
			n := from + i
			for len(f.rows) < n {
				f.rows = append(f.rows, nil)
			}
			f.rows[n-1] = row
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"updatedRange": rng})
	default:
		http.Error(w, "unexpected request", http.StatusBadRequest)
	}
}

func parseRows(rng string) (int, int, bool) {
	m := rowRangeRe.FindStringSubmatch(rng)
	if m == nil {
		return 0, 0, false
	}
	from, _ := strconv.Atoi(m[1])
	to, _ := strconv.Atoi(m[2])
	return from, to, true
}

func newTestClient(t *testing.T) (*Client, *fakeSheet) {
	t.Helper()
	fake := &fakeSheet{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), "sheet-id", "Attendance", nil,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, fake
}

func record(id int64, name string, d core.Date, attended bool) core.AttendanceRecord {
	return core.AttendanceRecord{ID: id, PersonName: name, VisitDate: d, Attended: attended}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(context.Background(), " ", "Attendance", nil, goption.WithoutAuthentication()); err == nil {
		t.Error("expected error for missing spreadsheet id")
	}
	if _, err := New(context.Background(), "id", "", nil, goption.WithoutAuthentication()); err == nil {
		t.Error("expected error for missing sheet name")
	}
	if _, err := NewWithCredentials(context.Background(), "id", "Attendance", nil, nil); err == nil {
		t.Error("expected error for missing credentials")
	}
}

func TestUpsertRecord_WritesHeaderThenAppends(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	if err := c.UpsertRecord(ctx, record(1, "Анна", core.NewDate(2024, 2, 29), false)); err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}
	if err := c.UpsertRecord(ctx, record(2, "Борис", core.NewDate(2024, 3, 1), true)); err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}

	if len(fake.rows) != 3 {
		t.Fatalf("rows = %v, want header and two records", fake.rows)
	}
	if fake.rows[0][0] != "ID" {
		t.Errorf("header = %v", fake.rows[0])
	}
	if fake.rows[1][1] != "2024-02-29" || fake.rows[1][2] != "Анна" || fake.rows[1][3] != false {
		t.Errorf("row 2 = %v", fake.rows[1])
	}
	if fake.rows[2][2] != "Борис" || fake.rows[2][3] != true {
		t.Errorf("row 3 = %v", fake.rows[2])
	}
}

func TestUpsertRecord_UpdatesExistingRow(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	r := record(7, "Анна", core.NewDate(2024, 2, 10), false)
	if err := c.UpsertRecord(ctx, r); err != nil {
		t.Fatal(err)
	}
	r.Attended = true
	if err := c.UpsertRecord(ctx, r); err != nil {
		t.Fatal(err)
	}

	if len(fake.rows) != 2 {
		t.Fatalf("rows = %v, want header and one record", fake.rows)
	}
	if fake.rows[1][3] != true {
		t.Errorf("attended not updated: %v", fake.rows[1])
	}
	if got := fake.calls[len(fake.calls)-1]; got != "update Attendance!A2:D2" {
		t.Errorf("last call = %q", got)
	}
}

func TestUpsertRecord_RequiresID(t *testing.T) {
	c, fake := newTestClient(t)
	if err := c.UpsertRecord(context.Background(), record(0, "Анна", core.NewDate(2024, 2, 10), false)); err == nil {
		t.Fatal("expected error for record without id")
	}
	if len(fake.calls) != 0 {
		t.Errorf("unexpected calls: %v", fake.calls)
	}
}

func TestDeleteRecord(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	for i, name := range []string{"Анна", "Борис"} {
		if err := c.UpsertRecord(ctx, record(int64(i+1), name, core.NewDate(2024, 2, 10), false)); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.DeleteRecord(ctx, 1); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if fake.rows[1] != nil {
		t.Errorf("row 2 not cleared: %v", fake.rows[1])
	}
	if fake.rows[2][2] != "Борис" {
		t.Errorf("row 3 changed: %v", fake.rows[2])
	}

	calls := len(fake.calls)
	if err := c.DeleteRecord(ctx, 42); err != nil {
		t.Fatalf("DeleteRecord unknown id: %v", err)
	}
	if len(fake.calls) != calls+1 {
		t.Errorf("unknown id should only read: %v", fake.calls[calls:])
	}
}

func TestReplaceAll(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	if err := c.UpsertRecord(ctx, record(9, "Старая", core.NewDate(2023, 1, 1), false)); err != nil {
		t.Fatal(err)
	}

	records := []core.AttendanceRecord{
		record(1, "Анна", core.NewDate(2024, 2, 1), true),
		record(2, "Борис", core.NewDate(2024, 2, 2), false),
	}
	if err := c.ReplaceAll(ctx, records); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	if len(fake.rows) != 3 {
		t.Fatalf("rows = %v", fake.rows)
	}
	if fake.rows[0][0] != "ID" || fake.rows[1][2] != "Анна" || fake.rows[2][2] != "Борис" {
		t.Errorf("unexpected grid: %v", fake.rows)
	}
}

func TestClient_APIError(t *testing.T) {
	c, fake := newTestClient(t)
	fake.fail = true

	if err := c.UpsertRecord(context.Background(), record(1, "Анна", core.NewDate(2024, 2, 1), true)); err == nil {
		t.Error("expected error from failing API")
	}
	if err := c.ReplaceAll(context.Background(), nil); err == nil {
		t.Error("expected error from failing API")
	}
}

func TestFindRow(t *testing.T) {
	ids := []string{"ID", "3", "", "12"}
	tests := []struct {
		id   int64
		want int
	}{
		{3, 2},
		{12, 4},
		{5, 0},
	}
	for _, tt := range tests {
		if got := findRow(ids, tt.id); got != tt.want {
			t.Errorf("findRow(%d) = %d, want %d", tt.id, got, tt.want)
		}
	}
}
