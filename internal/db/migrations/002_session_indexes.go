package migrations

// SessionIndexes adds the lookup indexes for per-aircraft queries.
var SessionIndexes = &Migration{
	Name: "002_session_indexes",
	UpSQL: `
		CREATE INDEX IF NOT EXISTS idx_adsb_core_icao ON adsb_core (icao);
		CREATE INDEX IF NOT EXISTS idx_adsb_core_datetime ON adsb_core (datetime_utc);
		CREATE INDEX IF NOT EXISTS idx_adsb_core_session ON adsb_core (session_id);
		CREATE INDEX IF NOT EXISTS idx_adsb_derived_icao ON adsb_derived (icao);
		CREATE INDEX IF NOT EXISTS idx_adsb_derived_msg_hash ON adsb_derived (msg_hash);
		CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions (started_at);
	`,
	DownSQL: `
		DROP INDEX IF EXISTS idx_sessions_started_at;
		DROP INDEX IF EXISTS idx_adsb_derived_msg_hash;
		DROP INDEX IF EXISTS idx_adsb_derived_icao;
		DROP INDEX IF EXISTS idx_adsb_core_session;
		DROP INDEX IF EXISTS idx_adsb_core_datetime;
		DROP INDEX IF EXISTS idx_adsb_core_icao;
	`,
}
