package migrations

// InitialSchema creates the capture session tables.
var InitialSchema = &Migration{
	Name: "001_initial_schema",
	UpSQL: `
		-- Capture sessions
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			ended_at TIMESTAMPTZ,
			ref_lat DOUBLE PRECISION,
			ref_lon DOUBLE PRECISION
		);

		-- Core dataset: one row per accepted frame, fixed schema
		CREATE TABLE IF NOT EXISTS adsb_core (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			timestamp DOUBLE PRECISION NOT NULL,
			datetime_utc TIMESTAMPTZ NOT NULL,
			icao TEXT NOT NULL,
			df INTEGER,
			typecode INTEGER,
			msg_hash TEXT NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			position_type TEXT,
			altitude DOUBLE PRECISION,
			selected_altitude_ft DOUBLE PRECISION,
			velocity_gs DOUBLE PRECISION,
			velocity_track DOUBLE PRECISION,
			velocity_vr DOUBLE PRECISION,
			velocity_type TEXT,
			airborne_speed DOUBLE PRECISION,
			airborne_heading DOUBLE PRECISION,
			airborne_vr DOUBLE PRECISION,
			airborne_type TEXT,
			spdhdg_speed DOUBLE PRECISION,
			spdhdg_heading DOUBLE PRECISION,
			baro_pressure_setting DOUBLE PRECISION,
			callsign TEXT,
			category INTEGER
		);

		-- Derived dataset: join keys plus everything else as JSONB
		CREATE TABLE IF NOT EXISTS adsb_derived (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			timestamp DOUBLE PRECISION NOT NULL,
			datetime_utc TIMESTAMPTZ NOT NULL,
			icao TEXT NOT NULL,
			msg_hash TEXT NOT NULL,
			fields JSONB NOT NULL
		);

		-- Per-session decode counters
		CREATE TABLE IF NOT EXISTS session_stats (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			label TEXT NOT NULL,
			count BIGINT NOT NULL,
			PRIMARY KEY (session_id, label)
		);
	`,
	DownSQL: `
		DROP TABLE IF EXISTS session_stats;
		DROP TABLE IF EXISTS adsb_derived;
		DROP TABLE IF EXISTS adsb_core;
		DROP TABLE IF EXISTS sessions;
	`,
}
