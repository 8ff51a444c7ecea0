package feedback

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestNewRecord(t *testing.T) {
	r, err := NewRecord("cough", intPtr(30), floatPtr(70.5), "penicillin", "influenza:0.80", "  spot on  ")
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "spot on", r.Feedback)
	assert.False(t, r.Timestamp.IsZero())

	_, err = NewRecord("cough", nil, nil, "", "", "   ")
	assert.ErrorIs(t, err, ErrEmptyFeedback)
}

func TestCSVStoreAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "feedback.csv")
	s := NewCSVStore(path)
	ctx := context.Background()

	first, err := NewRecord("burning, urination", intPtr(30), floatPtr(70.5), "penicillin", "uti:0.90;migraine:0.05", "helpful")
	require.NoError(t, err)
	second, err := NewRecord("headache", nil, nil, "", "migraine:1.00", "wrong \"guess\"")
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"burning, urination", "30", "70.5", "penicillin", "uti:0.90;migraine:0.05", "helpful"}, rows[1][1:])
	assert.Equal(t, []string{"headache", "", "", "", "migraine:1.00", "wrong \"guess\""}, rows[2][1:])
}

func TestCSVStoreKeepsExistingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(csvHeader, ",")+"\n"), 0o644))

	r, err := NewRecord("cough", nil, nil, "", "", "ok")
	require.NoError(t, err)
	require.NoError(t, NewCSVStore(path).Save(context.Background(), r))

	rows := readCSV(t, path)
	assert.Len(t, rows, 2)
}

func TestCSVStoreConcurrentSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.csv")
	s := NewCSVStore(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := NewRecord("cough", nil, nil, "", "", "ok")
			if err == nil {
				_ = s.Save(context.Background(), r)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, readCSV(t, path), 21)
}

func TestCSVStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewCSVStore(filepath.Join(t.TempDir(), "f.csv")).Save(ctx, Record{Feedback: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeExec struct {
	sql  []string
	args [][]any
	tag  pgconn.CommandTag
	err  error
}

func (f *fakeExec) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return f.tag, f.err
}

func TestPostgresStore(t *testing.T) {
	db := &fakeExec{tag: pgconn.NewCommandTag("INSERT 0 1")}
	s := NewPostgresStore(db)
	ctx := context.Background()

	require.NoError(t, s.EnsureSchema(ctx))
	assert.Contains(t, db.sql[0], "CREATE TABLE IF NOT EXISTS symptom_feedback")

	r, err := NewRecord("cough", intPtr(40), nil, "", "influenza:0.70", "good")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, r))
	require.Len(t, db.args, 2)
	assert.Equal(t, r.ID, db.args[1][0])
	assert.Equal(t, "good", db.args[1][7])
}

func TestPostgresStoreErrors(t *testing.T) {
	ctx := context.Background()
	r, err := NewRecord("cough", nil, nil, "", "", "good")
	require.NoError(t, err)

	failing := NewPostgresStore(&fakeExec{err: errors.New("connection refused")})
	assert.ErrorContains(t, failing.Save(ctx, r), "connection refused")
	assert.ErrorContains(t, failing.EnsureSchema(ctx), "create feedback table")

	noRows := NewPostgresStore(&fakeExec{tag: pgconn.NewCommandTag("INSERT 0 0")})
	assert.ErrorContains(t, noRows.Save(ctx, r), "0 rows affected")
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
