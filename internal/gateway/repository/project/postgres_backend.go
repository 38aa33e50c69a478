package project

import (
	"encoding/json"
	"strings"
	"time"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS interview_projects (
  project_id TEXT PRIMARY KEY,
  client_name TEXT NOT NULL DEFAULT '',
  data JSONB NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_interview_projects_client ON interview_projects (client_name);
`)
	})
	return s.schemaErr
}

func (s *Store) getDB(projectID string) (Record, bool) {
	if err := s.ensureSchema(); err != nil {
		return Record{}, false
	}
	id := strings.TrimSpace(projectID)
	if id == "" {
		return Record{}, false
	}
	var raw []byte
	err := s.db.QueryRow(`SELECT data FROM interview_projects WHERE project_id = $1`, id).Scan(&raw)
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false
	}
	rec.ProjectID = id
	return normalizeRecord(rec), true
}

func (s *Store) putDB(rec Record) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeRecord(rec)
	if n.ProjectID == "" {
		return
	}
	n.UpdatedAt = time.Now()
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}
	_, _ = s.db.Exec(`
INSERT INTO interview_projects (project_id, client_name, data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (project_id)
DO UPDATE SET client_name=EXCLUDED.client_name,
  data=EXCLUDED.data,
  updated_at=EXCLUDED.updated_at`,
		n.ProjectID, n.ClientName, raw, n.CreatedAt, n.UpdatedAt)
}

func (s *Store) updateDB(projectID string, update func(*Record)) (Record, bool) {
	if err := s.ensureSchema(); err != nil {
		return Record{}, false
	}
	tx, err := s.db.Begin()
	if err != nil {
		return Record{}, false
	}
	defer func() { _ = tx.Rollback() }()

	id := strings.TrimSpace(projectID)
	var raw []byte
	if err := tx.QueryRow(`SELECT data FROM interview_projects WHERE project_id = $1 FOR UPDATE`, id).Scan(&raw); err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false
	}
	update(&rec)
	rec.ProjectID = id
	rec = normalizeRecord(rec)
	rec.UpdatedAt = time.Now()

	out, err := json.Marshal(rec)
	if err != nil {
		return Record{}, false
	}
	if _, err := tx.Exec(`
UPDATE interview_projects
SET client_name=$2, data=$3, updated_at=$4
WHERE project_id=$1`,
		rec.ProjectID, rec.ClientName, out, rec.UpdatedAt); err != nil {
		return Record{}, false
	}
	if err := tx.Commit(); err != nil {
		return Record{}, false
	}
	return rec, true
}

func (s *Store) listDB() []Record {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT project_id, data FROM interview_projects ORDER BY created_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Record, 0, 32)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		rec.ProjectID = id
		out = append(out, normalizeRecord(rec))
	}
	return out
}
