package migrations

// Schema is the full database schema, applied idempotently on startup.
//
// conversations.phone is UNIQUE so that find-or-create can be expressed as
// a single atomic upsert; concurrent first-contact webhooks for the same
// number converge on one row instead of racing.
//
// messages.provider_message_id is UNIQUE so that webhook redeliveries are
// absorbed by INSERT OR IGNORE. Outbound sends without a provider id store
// NULL, which SQLite exempts from the uniqueness constraint.
const Schema = `
CREATE TABLE IF NOT EXISTS conversations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    phone TEXT NOT NULL UNIQUE,
    name TEXT,
    last_message_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_conversations_last_message_at ON conversations(last_message_at);

CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    conversation_id INTEGER NOT NULL REFERENCES conversations(id),
    provider_message_id TEXT UNIQUE,
    sender_phone TEXT NOT NULL,
    text TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT 'text',
    media_url TEXT,
    media_filename TEXT,
    is_from_me BOOLEAN NOT NULL DEFAULT FALSE,
    timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    status TEXT NOT NULL DEFAULT 'received'
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation_time ON messages(conversation_id, timestamp);

CREATE TABLE IF NOT EXISTS webhook_config (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    webhook_url TEXT NOT NULL,
    secret_token TEXT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// GetInitialSchema returns the initial database schema.
func GetInitialSchema() string {
	return Schema
}
