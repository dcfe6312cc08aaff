package instrument

const Schema = `
CREATE TABLE IF NOT EXISTS instruments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ticker TEXT NOT NULL,
	name TEXT NOT NULL,
	class TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS marketdata (
	instrument_id INTEGER NOT NULL,
	close TEXT NOT NULL,
	previous_close TEXT NOT NULL,
	date DATETIME NOT NULL,
	FOREIGN KEY (instrument_id) REFERENCES instruments(id)
);

CREATE INDEX IF NOT EXISTS idx_marketdata_instrument_date ON marketdata(instrument_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_instruments_name ON instruments(name);
`
