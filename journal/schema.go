// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	record_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	order_id TEXT NOT NULL,
	instrument TEXT NOT NULL,
	order_type TEXT NOT NULL,
	volume REAL NOT NULL,
	price REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	attempts INTEGER NOT NULL,
	status TEXT NOT NULL,
	reason TEXT NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_run ON orders(run_id);
CREATE INDEX IF NOT EXISTS idx_orders_time ON orders(time);
`
