package db

// migrationsSQL holds the schema. Statements are split on ';' and run in
// order by InitDB, so no statement body may contain a semicolon.
const migrationsSQL = `
CREATE TABLE IF NOT EXISTS recipes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ingredients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	ingredient TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS instructions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	step_number INTEGER NOT NULL,
	instruction TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS macros (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ingredients_recipe ON ingredients(recipe_id);

CREATE INDEX IF NOT EXISTS idx_instructions_recipe ON instructions(recipe_id);

CREATE INDEX IF NOT EXISTS idx_macros_recipe ON macros(recipe_id);
`
