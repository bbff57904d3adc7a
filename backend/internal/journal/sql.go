package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/pkg/dialect"
	"sensor-dashboard/backend/pkg/migrator"
	"sensor-dashboard/backend/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Open migrates the journal schema and connects to it. dialect.None yields Nop.
//
//nolint:ireturn // Returns Journal interface (SQL or Nop)
func Open(ctx context.Context, l *slog.Logger, d dialect.Dialect, connString string) (Journal, error) {
	if d == dialect.None {
		l.Info("journal disabled")
		return Nop{}, nil
	}

	mig, err := migrator.New(l, d, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := mig.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}

	db, err := sql.Open(d.Driver(), connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if d == dialect.SQLite {
		// One writer at a time avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		utils.LogOnError(l, db.Close, "failed to close journal database")
		return nil, fmt.Errorf("failed to reach journal database: %w", err)
	}

	p := d.Placeholder

	j := &SQL{
		l:  l.With(slog.String("component", "journal"), slog.String("dialect", d.String())),
		db: db,
		insertQuery: fmt.Sprintf(`INSERT INTO readings
			(sensor_id, sensor_type, location, temperature, humidity, battery, received_at)
			VALUES (%s, %s, %s, %s, %s, %s, %s)`, p(1), p(2), p(3), p(4), p(5), p(6), p(7)),
		recentQuery: fmt.Sprintf(`SELECT sensor_id, sensor_type, location, temperature, humidity, battery, received_at
			FROM readings
			WHERE sensor_type = %s AND location = %s
			ORDER BY received_at DESC, id DESC
			LIMIT %s`, p(1), p(2), p(3)),
	}

	j.l.Info("journal opened")

	return j, nil
}

// SQL is a Journal backed by database/sql.
type SQL struct {
	l           *slog.Logger
	db          *sql.DB
	insertQuery string
	recentQuery string
}

func (j *SQL) Enabled() bool { return true }

func (j *SQL) Append(ctx context.Context, e Entry) error {
	var battery sql.NullInt64
	if e.Battery != nil {
		battery = sql.NullInt64{Int64: int64(*e.Battery), Valid: true}
	}

	_, err := j.db.ExecContext(ctx, j.insertQuery,
		int64(e.SensorID), e.Type, e.Location, e.Temperature, e.Humidity, battery, e.ReceivedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to append reading for %s@%s: %w", e.Type, e.Location, err)
	}

	return nil
}

func (j *SQL) Recent(ctx context.Context, key aggregate.SensorKey, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, j.recentQuery, key.Type, key.Location, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings for %s: %w", key, err)
	}

	defer utils.LogOnError(j.l, rows.Close, "failed to close readings rows")

	entries := []Entry{}

	for rows.Next() {
		var (
			e          Entry
			sensorID   int64
			battery    sql.NullInt64
			receivedAt time.Time
		)

		if err := rows.Scan(&sensorID, &e.Type, &e.Location, &e.Temperature, &e.Humidity, &battery, &receivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}

		e.SensorID = aggregate.SensorID(sensorID)
		e.ReceivedAt = receivedAt.UTC()

		if battery.Valid {
			e.Battery = utils.Ptr(uint32(battery.Int64))
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return entries, nil
}

func (j *SQL) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

func (j *SQL) Close() error {
	j.l.Info("closing journal")
	return j.db.Close()
}
