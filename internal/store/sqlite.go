// 包 store 提供运行存档（SQLite）：保存规范化后的粉丝与被拒绝的原始记录，
// 包含表迁移/写入/查询/清理等操作。
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"go-fb-followers/internal/model"
	"go-fb-followers/internal/normalize"
)

// SQLite 封装 *sql.DB，基于 modernc.org/sqlite（纯 Go 实现）。
type SQLite struct {
	db *sql.DB
}

// Stats 为存档统计：粉丝总数、按好友状态分组计数、拒绝记录数。
type Stats struct {
	FollowersTotal int                            `json:"followers_total"`
	ByStatus       map[model.FriendshipStatus]int `json:"by_status"`
	Rejected       int                            `json:"rejected"`
	UpdatedAt      time.Time                      `json:"updated_at"`
}

// OpenSQLite 打开 SQLite 数据库并执行自动迁移。
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Reset 清空存档表（不删除数据库文件）。
func (s *SQLite) Reset(ctx context.Context) error {
	for _, table := range []string{"rejections", "followers"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

// migrate 执行建表语句，保持幂等。
func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS followers (
            profile_key TEXT PRIMARY KEY,
            id TEXT,
            image TEXT,
            title TEXT,
            subtitle_text TEXT,
            url TEXT,
            friendship_status TEXT NOT NULL,
            gender TEXT,
            name TEXT NOT NULL,
            short_name TEXT,
            run_id TEXT,
            updated_at TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS rejections (
            run_id TEXT,
            idx INTEGER,
            reason TEXT,
            raw TEXT,
            created_at TIMESTAMP
        );`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec migrate: %w", err)
		}
	}
	return nil
}

// SaveRun 在一个事务内写入本次运行的粉丝（按档案键 upsert）与拒绝记录。
func (s *SQLite) SaveRun(ctx context.Context, runID string, followers []model.Follower, rejected []normalize.Rejection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	now := time.Now()
	for _, f := range followers {
		if err := upsertFollower(ctx, tx, runID, f, now); err != nil {
			return err
		}
	}
	for _, r := range rejected {
		raw, err := json.Marshal(r.Raw)
		if err != nil {
			return fmt.Errorf("marshal rejected #%d: %w", r.Index, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO rejections(run_id, idx, reason, raw, created_at) VALUES(?,?,?,?,?)`,
			runID, r.Index, reasonText(r.Reason), string(raw), now); err != nil {
			return fmt.Errorf("insert rejected #%d: %w", r.Index, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// execer 为 *sql.DB 与 *sql.Tx 的公共子集。
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UpsertFollower 插入或更新单个粉丝（档案键唯一）。
func (s *SQLite) UpsertFollower(ctx context.Context, runID string, f model.Follower) error {
	return upsertFollower(ctx, s.db, runID, f, time.Now())
}

func upsertFollower(ctx context.Context, db execer, runID string, f model.Follower, now time.Time) error {
	_, err := db.ExecContext(ctx, `INSERT INTO followers(profile_key, id, image, title, subtitle_text, url, friendship_status, gender, name, short_name, run_id, updated_at)
        VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT(profile_key) DO UPDATE SET id=excluded.id, image=excluded.image, title=excluded.title,
            subtitle_text=excluded.subtitle_text, url=excluded.url, friendship_status=excluded.friendship_status,
            gender=excluded.gender, name=excluded.name, short_name=excluded.short_name,
            run_id=excluded.run_id, updated_at=excluded.updated_at`,
		f.Key(), f.ID, f.Image, f.Title, f.SubtitleText, f.URL, string(f.FriendshipStatus), string(f.Gender), f.Name, f.ShortName, runID, now)
	if err != nil {
		return fmt.Errorf("upsert follower %s: %w", f.Key(), err)
	}
	return nil
}

// ListFollowers 返回全部粉丝，按 name 排序。
func (s *SQLite) ListFollowers(ctx context.Context) ([]model.Follower, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT COALESCE(id,''), COALESCE(image,''), COALESCE(title,''), COALESCE(subtitle_text,''),
        COALESCE(url,''), friendship_status, COALESCE(gender,''), name, COALESCE(short_name,'') FROM followers ORDER BY name, profile_key`)
	if err != nil {
		return nil, fmt.Errorf("query followers: %w", err)
	}
	defer rows.Close()
	var out []model.Follower
	for rows.Next() {
		var f model.Follower
		var status, gender string
		if err := rows.Scan(&f.ID, &f.Image, &f.Title, &f.SubtitleText, &f.URL, &status, &gender, &f.Name, &f.ShortName); err != nil {
			return nil, fmt.Errorf("scan followers: %w", err)
		}
		f.FriendshipStatus = model.FriendshipStatus(status)
		f.Gender = model.Gender(gender)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate followers: %w", err)
	}
	return out, nil
}

// RejectionCount 返回指定运行的拒绝记录数；runID 为空时统计全部。
func (s *SQLite) RejectionCount(ctx context.Context, runID string) (int, error) {
	var n int
	q, args := `SELECT COUNT(1) FROM rejections`, []any{}
	if runID != "" {
		q, args = q+` WHERE run_id = ?`, append(args, runID)
	}
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rejections: %w", err)
	}
	return n, nil
}

// Stats 统计汇总。
func (s *SQLite) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByStatus: map[model.FriendshipStatus]int{}}
	rows, err := s.db.QueryContext(ctx, `SELECT friendship_status, COUNT(1) FROM followers GROUP BY friendship_status`)
	if err != nil {
		return st, fmt.Errorf("count followers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return st, fmt.Errorf("scan status count: %w", err)
		}
		st.ByStatus[model.FriendshipStatus(status)] = n
		st.FollowersTotal += n
	}
	if err := rows.Err(); err != nil {
		return st, fmt.Errorf("iterate status counts: %w", err)
	}
	rows.Close()
	if st.Rejected, err = s.RejectionCount(ctx, ""); err != nil {
		return st, err
	}
	st.UpdatedAt = time.Now()
	return st, nil
}

func reasonText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
