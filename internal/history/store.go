// Package history 用 SQLite 记录合成历史，便于排查与统计。
// 只保存元数据，不保存音频本身。
package history

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/iabetor/pipertts/internal/logger"
	_ "modernc.org/sqlite"
)

// Store 是合成历史数据库。
type Store struct {
	db   *sql.DB
	path string
}

// Entry 是一条合成历史记录。
type Entry struct {
	ID         string
	TextHash   string
	ModelPath  string
	Voice      string
	SampleRate int
	NumSamples int
	DurationMS int64
	CreatedAt  time.Time
}

// Open 打开或创建历史数据库并执行迁移。
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	// WAL 模式，写入不阻塞读取
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("设置 WAL 模式失败: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Infof("[history] 历史数据库已打开: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `CREATE TABLE IF NOT EXISTS synthesis_history (
		id TEXT PRIMARY KEY,
		text_hash TEXT NOT NULL,
		model_path TEXT NOT NULL,
		voice TEXT NOT NULL,
		sample_rate INTEGER NOT NULL,
		num_samples INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_text_hash ON synthesis_history(text_hash);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}

// HashText 计算文本的查询键。
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Record 写入一条合成历史。
func (s *Store) Record(text, modelPath, voiceName string, sampleRate, numSamples int) error {
	durationMS := int64(0)
	if sampleRate > 0 {
		durationMS = int64(numSamples) * 1000 / int64(sampleRate)
	}

	_, err := s.db.Exec(
		`INSERT INTO synthesis_history
		 (id, text_hash, model_path, voice, sample_rate, num_samples, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), HashText(text), modelPath, voiceName,
		sampleRate, numSamples, durationMS, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("写入合成历史失败: %w", err)
	}
	return nil
}

// LookupByText 返回同一文本此前的合成记录，按时间倒序。
func (s *Store) LookupByText(text string) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, text_hash, model_path, voice, sample_rate, num_samples, duration_ms, created_at
		 FROM synthesis_history WHERE text_hash = ? ORDER BY created_at DESC`,
		HashText(text),
	)
	if err != nil {
		return nil, fmt.Errorf("查询合成历史失败: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.TextHash, &e.ModelPath, &e.Voice,
			&e.SampleRate, &e.NumSamples, &e.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("读取合成历史失败: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close 关闭数据库。
func (s *Store) Close() error {
	return s.db.Close()
}
