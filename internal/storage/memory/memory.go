package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"neirocalendar/internal/core"
	"neirocalendar/internal/storage"
)

// Store keeps attendance records in process memory. Useful for demos and tests.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]core.AttendanceRecord
}

var _ storage.AttendanceStore = (*Store)(nil)

func New(seed ...core.AttendanceRecord) *Store {
	s := &Store{nextID: 1, items: make(map[int64]core.AttendanceRecord)}
	for _, r := range seed {
		r.ID = 0
		_, _ = s.Save(context.Background(), r)
	}
	return s
}

// NewFromFile seeds the store from a text file with one record per line:
//
//	2024-02-29;Анна;1
//
// The third column is optional. Blank lines and lines starting with # are skipped.
func NewFromFile(path string) (*Store, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	var seed []core.AttendanceRecord
	for i, line := range lines {
		r, err := parseSeedLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", path, i+1, err)
		}
		seed = append(seed, r)
	}
	return New(seed...), nil
}

func parseSeedLine(line string) (core.AttendanceRecord, error) {
	parts := strings.Split(line, ";")
	if len(parts) < 2 || len(parts) > 3 {
		return core.AttendanceRecord{}, fmt.Errorf("expected date;name[;attended], got %q", line)
	}
	date, err := core.ParseDate(parts[0])
	if err != nil {
		return core.AttendanceRecord{}, err
	}
	r := core.NewAttendanceRecord(parts[1], date)
	if len(parts) == 3 {
		attended, err := strconv.ParseBool(strings.TrimSpace(parts[2]))
		if err != nil {
			return core.AttendanceRecord{}, fmt.Errorf("attended flag: %w", err)
		}
		r.Attended = attended
	}
	return r, r.Validate()
}

func (s *Store) FindByDateRange(_ context.Context, start, end core.Date) ([]core.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.AttendanceRecord
	for _, r := range s.items {
		if !r.VisitDate.Before(start) && !r.VisitDate.After(end) {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *Store) FindByDate(ctx context.Context, date core.Date) ([]core.AttendanceRecord, error) {
	return s.FindByDateRange(ctx, date, date)
}

func (s *Store) FindByID(_ context.Context, id int64) (core.AttendanceRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	return r, ok, nil
}

func (s *Store) Save(_ context.Context, record core.AttendanceRecord) (core.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.VisitDate = core.DateOf(record.VisitDate.Time)
	if _, ok := s.items[record.ID]; !ok || record.ID == 0 {
		record.ID = s.nextID
		s.nextID++
	}
	s.items[record.ID] = record
	return record, nil
}

func (s *Store) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func sortRecords(rs []core.AttendanceRecord) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].VisitDate != rs[j].VisitDate {
			return rs[i].VisitDate.Before(rs[j].VisitDate)
		}
		return rs[i].ID < rs[j].ID
	})
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
