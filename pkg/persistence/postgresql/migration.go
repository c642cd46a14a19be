package postgresql

// migrations returns the versioned schema for the area store.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS areas (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				enabled BOOLEAN NOT NULL DEFAULT TRUE,
				owner TEXT NOT NULL DEFAULT '',
				trigger_count BIGINT NOT NULL DEFAULT 0,
				last_triggered_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS trigger_bindings (
				id TEXT PRIMARY KEY,
				area_id TEXT NOT NULL REFERENCES areas(id) ON DELETE CASCADE,
				service TEXT NOT NULL,
				trigger_name TEXT NOT NULL,
				parameters JSONB NOT NULL DEFAULT '{}',
				connection_id TEXT NOT NULL DEFAULT '',
				metadata JSONB,
				UNIQUE (area_id)
			);

			CREATE TABLE IF NOT EXISTS reaction_bindings (
				id TEXT PRIMARY KEY,
				area_id TEXT NOT NULL REFERENCES areas(id) ON DELETE CASCADE,
				service TEXT NOT NULL,
				reaction_name TEXT NOT NULL,
				parameters JSONB NOT NULL DEFAULT '{}',
				connection_id TEXT NOT NULL DEFAULT '',
				position INTEGER NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS connections (
				id TEXT PRIMARY KEY,
				service TEXT NOT NULL,
				owner TEXT NOT NULL DEFAULT '',
				access_token TEXT NOT NULL DEFAULT '',
				refresh_token TEXT NOT NULL DEFAULT '',
				expires_at TIMESTAMP WITH TIME ZONE,
				metadata JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_areas_enabled ON areas(enabled) WHERE enabled;
			CREATE INDEX IF NOT EXISTS idx_reaction_bindings_area ON reaction_bindings(area_id);
		`,
	}
}
