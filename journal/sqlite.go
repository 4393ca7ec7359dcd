package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordOrder(r OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(record_id, run_id, order_id, instrument, order_type, volume, price,
		 stop_loss, take_profit, attempts, status, reason, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RecordID, r.RunID, r.OrderID, r.Instrument, r.OrderType, r.Volume,
		r.Price, r.StopLoss, r.TakeProfit, r.Attempts, r.Status, r.Reason, r.Time,
	)
	return err
}

// ListByRun returns the records for one run, oldest first.
func (j *SQLiteJournal) ListByRun(runID string) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT record_id, run_id, order_id, instrument, order_type, volume,
		       price, stop_loss, take_profit, attempts, status, reason, time
		FROM orders WHERE run_id = ? ORDER BY record_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var r OrderRecord
		if err := rows.Scan(&r.RecordID, &r.RunID, &r.OrderID, &r.Instrument,
			&r.OrderType, &r.Volume, &r.Price, &r.StopLoss, &r.TakeProfit,
			&r.Attempts, &r.Status, &r.Reason, &r.Time); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
