// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"record_id", "run_id", "order_id", "instrument",
		"order_type", "volume", "price", "stop_loss", "take_profit",
		"attempts", "status", "reason", "time"}); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVJournal{w, f}, nil
}

func (j *CSVJournal) RecordOrder(r OrderRecord) error {
	j.w.Write([]string{
		r.RecordID,
		r.RunID,
		r.OrderID,
		r.Instrument,
		r.OrderType,
		f(r.Volume),
		f(r.Price),
		f(r.StopLoss),
		f(r.TakeProfit),
		strconv.Itoa(r.Attempts),
		r.Status,
		r.Reason,
		r.Time.Format(time.RFC3339),
	})
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
