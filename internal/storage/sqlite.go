package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"neirocalendar/internal/core"

	_ "modernc.org/sqlite"
)

const selectColumns = `SELECT id, person_name, visit_date, attended FROM attendance_records`

// SQLiteRepository stores attendance records in a single SQLite file.
type SQLiteRepository struct {
	db *sqlx.DB
}

var _ AttendanceStore = (*SQLiteRepository)(nil)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// attendanceRow mirrors the attendance_records columns.
type attendanceRow struct {
	ID         int64  `db:"id"`
	PersonName string `db:"person_name"`
	VisitDate  string `db:"visit_date"`
	Attended   bool   `db:"attended"`
}

// toRecord is the single row to domain conversion.
func (row attendanceRow) toRecord() (core.AttendanceRecord, error) {
	date, err := core.ParseDate(row.VisitDate)
	if err != nil {
		return core.AttendanceRecord{}, fmt.Errorf("row %d: %w", row.ID, err)
	}
	return core.AttendanceRecord{
		ID:         row.ID,
		PersonName: row.PersonName,
		VisitDate:  date,
		Attended:   row.Attended,
	}, nil
}

func rowFromRecord(r core.AttendanceRecord) attendanceRow {
	return attendanceRow{
		ID:         r.ID,
		PersonName: r.PersonName,
		VisitDate:  r.VisitDate.String(),
		Attended:   r.Attended,
	}
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) FindByDateRange(ctx context.Context, start, end core.Date) ([]core.AttendanceRecord, error) {
	var rows []attendanceRow
	err := r.db.SelectContext(ctx, &rows,
		selectColumns+` WHERE visit_date BETWEEN ? AND ? ORDER BY visit_date, id`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("find by date range %s..%s: %w", start, end, err)
	}
	return toRecords(rows)
}

func (r *SQLiteRepository) FindByDate(ctx context.Context, date core.Date) ([]core.AttendanceRecord, error) {
	var rows []attendanceRow
	err := r.db.SelectContext(ctx, &rows,
		selectColumns+` WHERE visit_date = ? ORDER BY id`, date.String())
	if err != nil {
		return nil, fmt.Errorf("find by date %s: %w", date, err)
	}
	return toRecords(rows)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (core.AttendanceRecord, bool, error) {
	var row attendanceRow
	err := r.db.GetContext(ctx, &row, selectColumns+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.AttendanceRecord{}, false, nil
	}
	if err != nil {
		return core.AttendanceRecord{}, false, fmt.Errorf("find by id %d: %w", id, err)
	}
	rec, err := row.toRecord()
	if err != nil {
		return core.AttendanceRecord{}, false, err
	}
	return rec, true, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, record core.AttendanceRecord) (core.AttendanceRecord, error) {
	row := rowFromRecord(record)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return record, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if row.ID != 0 {
		res, err := tx.NamedExecContext(ctx, `
			UPDATE attendance_records
			SET person_name = :person_name,
			    visit_date  = :visit_date,
			    attended    = :attended,
			    updated_at  = CURRENT_TIMESTAMP
			WHERE id = :id`, row)
		if err != nil {
			return record, fmt.Errorf("update record %d: %w", row.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return record, fmt.Errorf("update record %d: %w", row.ID, err)
		}
		if n == 1 {
			if err := tx.Commit(); err != nil {
				return record, fmt.Errorf("commit transaction: %w", err)
			}
			slog.DebugContext(ctx, "Attendance record updated", "id", row.ID, "attended", row.Attended)
			return record, nil
		}
	}

	res, err := tx.NamedExecContext(ctx, `
		INSERT INTO attendance_records (person_name, visit_date, attended)
		VALUES (:person_name, :visit_date, :attended)`, row)
	if err != nil {
		return record, fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return record, fmt.Errorf("read inserted id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return record, fmt.Errorf("commit transaction: %w", err)
	}

	record.ID = id
	slog.DebugContext(ctx, "Attendance record inserted",
		"id", id,
		"person_name", row.PersonName,
		"visit_date", row.VisitDate)
	return record, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	return nil
}

func toRecords(rows []attendanceRow) ([]core.AttendanceRecord, error) {
	out := make([]core.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
