package db

import (
	"context"
	"database/sql"
)

// The ownership edge lives in has_session rather than as a column on
// sessions. Cascades on both sides keep the edge table free of orphans
// whichever end is deleted.
const schema = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    username text NOT NULL,
    number bigserial NOT NULL UNIQUE,
    email text NOT NULL DEFAULT '',
    hashed_password text NOT NULL DEFAULT '',
    permission_level integer NOT NULL DEFAULT 1,
    currency bigint NOT NULL DEFAULT 0,
    currency_collected timestamptz NOT NULL DEFAULT NOW(),
    created timestamptz NOT NULL DEFAULT NOW(),
    last_online timestamptz NOT NULL DEFAULT NOW(),
    status text NOT NULL DEFAULT 'Offline',
    css text NOT NULL DEFAULT '',
    body_colours jsonb NOT NULL DEFAULT '{}'::jsonb,
    bio jsonb NOT NULL DEFAULT '[]'::jsonb
);

CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_unique
ON users (LOWER(username));

CREATE TABLE IF NOT EXISTS identities (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    provider text NOT NULL,
    provider_user_id text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT identities_provider_unique
        UNIQUE (provider, provider_user_id)
);

CREATE INDEX IF NOT EXISTS identities_user_id_idx
ON identities (user_id);

CREATE TABLE IF NOT EXISTS sessions (
    id text PRIMARY KEY,
    expires_at bigint NOT NULL
);

CREATE INDEX IF NOT EXISTS sessions_expires_at_idx
ON sessions (expires_at);

CREATE TABLE IF NOT EXISTS has_session (
    user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    session_id text NOT NULL UNIQUE REFERENCES sessions(id) ON DELETE CASCADE,
    PRIMARY KEY (user_id, session_id)
);

CREATE TABLE IF NOT EXISTS announcements (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    body text NOT NULL,
    bg_colour text NOT NULL,
    text_light boolean NOT NULL DEFAULT false,
    active boolean NOT NULL DEFAULT true,
    user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS forum_categories (
    name text PRIMARY KEY,
    description text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS forum_posts (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    title text NOT NULL,
    content text NOT NULL,
    author_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    forum_category_name text NOT NULL,
    posted timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS groups (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    name text NOT NULL UNIQUE,
    owner_username text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS posts (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    content text NOT NULL,
    author_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    posted timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS posts_posted_idx
ON posts (posted DESC);

CREATE TABLE IF NOT EXISTS places (
    id bigserial PRIMARY KEY,
    name text NOT NULL,
    owner_id uuid REFERENCES users(id) ON DELETE SET NULL,
    private_server boolean NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS game_sessions (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    place_id bigint NOT NULL REFERENCES places(id) ON DELETE CASCADE,
    ping bigint NOT NULL DEFAULT 0
);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
