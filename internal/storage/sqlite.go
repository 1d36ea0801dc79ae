package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// schemaHeadroomPages запас страниц на схему и служебные данные поверх квоты
const schemaHeadroomPages = 16

// SQLite хранит ключи в таблице kv базы SQLite
type SQLite struct {
	db    *sql.DB
	quota int64
}

// OpenSQLite открывает базу и создает таблицу kv. Лимит базы в страницах выставляется по квоте
func OpenSQLite(ctx context.Context, path string, quota int64) (*SQLite, error) {
	// Драйвер modernc.org/sqlite регистрируется под именем "sqlite"
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}
	// Один писатель: так SQLITE_FULL приходит из той же транзакции, что и запись
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "failed to apply %q", p)
		}
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create kv table")
	}

	if quota > 0 {
		var pageSize int64
		if err := db.QueryRowContext(ctx, "PRAGMA page_size;").Scan(&pageSize); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "failed to read page size")
		}
		if pageSize > 0 {
			pages := quota/pageSize + schemaHeadroomPages
			// PRAGMA не принимает параметры, значение подставляется в текст
			if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA max_page_count = %d;", pages)); err != nil {
				_ = db.Close()
				return nil, errors.Wrap(err, "failed to set page limit")
			}
		}
	}

	return &SQLite{db: db, quota: quota}, nil
}

// Get читает значение ключа
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT v FROM kv WHERE k = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read key %q", key)
	}
	return v, true, nil
}

// Set записывает значение ключа
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	var others int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(LENGTH(CAST(k AS BLOB)) + LENGTH(CAST(v AS BLOB))), 0) FROM kv WHERE k <> ?",
		key,
	).Scan(&others)
	if err != nil {
		return errors.Wrap(err, "failed to compute storage usage")
	}
	if err := checkQuota(s.quota, others, key, value); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v",
		key, value,
	)
	if err != nil {
		if isFull(err) {
			return errors.Wrapf(ErrQuotaExceeded, "failed to write key %q: %v", key, err)
		}
		return errors.Wrapf(err, "failed to write key %q", key)
	}
	return nil
}

// Close закрывает базу
func (s *SQLite) Close() error {
	return s.db.Close()
}

func isFull(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	// Расширенные коды содержат основной код в младшем байте
	return se.Code()&0xff == sqlite3.SQLITE_FULL
}
