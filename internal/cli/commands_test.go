package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/macrolog/internal/testutil"
	"github.com/roach88/macrolog/internal/view"
)

const testToday = "2025-06-30"

// cliEnv is an isolated macrolog setup: temp log, fixture food table and a
// config path that does not exist, so defaults plus flags apply.
type cliEnv struct {
	t      *testing.T
	dir    string
	opts   *RootOptions
	config string
	log    string
	foods  string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	foods, err := filepath.Abs(filepath.Join("testdata", "foods.csv"))
	require.NoError(t, err)

	return &cliEnv{
		t:   t,
		dir: dir,
		opts: &RootOptions{
			Clock: testutil.NewFixedClockOn(testToday),
			IDs:   testutil.NewFixedIDGenerator("id-1", "id-2", "id-3", "id-4", "id-5"),
		},
		config: filepath.Join(dir, "missing", "config.yaml"),
		log:    filepath.Join(dir, "daily_log.csv"),
		foods:  foods,
	}
}

// run executes macrolog with the env's files prepended to args.
func (e *cliEnv) run(args ...string) (stdout, stderr string, code int) {
	e.t.Helper()
	full := append([]string{"--config", e.config, "--log", e.log, "--foods", e.foods}, args...)
	var out, errOut bytes.Buffer
	code = execute(context.Background(), e.opts, full, &out, &errOut)
	return out.String(), errOut.String(), code
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, errOut, code := e.run(args...)
	require.Equal(e.t, ExitSuccess, code, "stderr: %s", errOut)
	return out
}

type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

func decodeResponse(t *testing.T, out string) jsonResponse {
	t.Helper()
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func TestLogAndDay_Golden(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "peanut_butter_tbsp", "2")
	env.mustRun("log", "banana", "1")

	out := env.mustRun("day")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "day_text", []byte(out))
}

func TestLog_PrintsRecomputedDay(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("log", "peanut butter", "2")

	assert.Contains(t, out, "Logged 2 tablespoon(s) of Peanut Butter Tbsp.")
	assert.Contains(t, out, "188 kcal | 8.0g P | 6.0g C | 16.0g F")
	assert.Contains(t, out, "[id-1]")
}

func TestLog_PersistsAcrossInvocations(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "banana_medium", "1")

	data, err := os.ReadFile(env.log)
	require.NoError(t, err)
	assert.Equal(t,
		"id,date,name,amount_logged,calories,protein,carbs,fat\n"+
			"id-1,2025-06-30,Banana Medium,1 item(s),105,1.3,27,0.4\n",
		string(data))
}

func TestLog_JSON(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("--format", "json", "log", "whey", "1", "--date", "29/06/2025")

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)

	var got loggedView
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, "id-1", got.Entry.ID)
	assert.Equal(t, "2025-06-29", got.Entry.Date.String())
	assert.Equal(t, "1 scoop(s)", got.Entry.Amount)
	assert.Equal(t, 120.0, got.Entry.Calories)
	assert.Equal(t, "2025-06-29", got.Day.Date.String())
	assert.Len(t, got.Day.Entries, 1)
}

func TestLog_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"bad_amount", []string{"log", "banana", "lots"}, ExitCommandError, "E010"},
		{"zero_amount", []string{"log", "banana", "0"}, ExitCommandError, "E010"},
		{"unknown_food", []string{"log", "kale", "1"}, ExitFailure, "E005"},
		{"ambiguous_food", []string{"log", "e", "1"}, ExitFailure, "E006"},
		{"expired_date", []string{"log", "banana", "1", "--date", "2025-05-30"}, ExitFailure, "E010"},
		{"bad_date", []string{"log", "banana", "1", "--date", "yesterday"}, ExitCommandError, "E010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			out, _, code := env.run(append([]string{"--format", "json"}, tt.args...)...)

			assert.Equal(t, tt.wantCode, code)
			resp := decodeResponse(t, out)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)

			_, err := os.Stat(env.log)
			assert.True(t, os.IsNotExist(err), "failed log must not write")
		})
	}
}

func TestLog_OldestRetainedDayAccepted(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("log", "banana", "1", "--date", "2025-05-31")
	assert.Contains(t, out, "Totals for May 31, 2025")
}

func TestLog_TextErrorOnStderr(t *testing.T) {
	env := newCLIEnv(t)

	out, errOut, code := env.run("log", "kale", "1")

	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Error: ")
	assert.Contains(t, errOut, "kale")
}

func TestDay_Empty(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("day", "--date", "2025-06-01")

	assert.Equal(t, "Totals for June 01, 2025\n  0 kcal | 0.0g P | 0.0g C | 0.0g F\n\nNo entries logged for this day.\n", out)
}

func TestDelete_ByID(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "banana", "1")
	env.mustRun("log", "bread", "2")

	out := env.mustRun("delete", "id-1")

	assert.Contains(t, out, "Deleted Banana Medium (1 item(s)).")
	assert.Contains(t, out, "Log (1 entry)")
	assert.Contains(t, out, "Bread Slice")
	assert.NotContains(t, out, "[id-1]")
}

func TestDelete_MissingIsNoop(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "banana", "1")
	before, err := os.ReadFile(env.log)
	require.NoError(t, err)

	out := env.mustRun("delete", "id-1")
	assert.Contains(t, out, "Deleted")

	out = env.mustRun("delete", "id-1")
	assert.Contains(t, out, "No entry id-1 (already deleted).")

	after, err := os.ReadFile(env.log)
	require.NoError(t, err)
	assert.NotEqual(t, string(before), string(after))
	assert.Equal(t, "id,date,name,amount_logged,calories,protein,carbs,fat\n", string(after))
}

func TestDelete_ByIndex(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "banana", "1", "--date", "2025-06-29")
	env.mustRun("log", "bread", "1", "--date", "2025-06-29")
	env.mustRun("log", "oats", "100")

	// Listing for 06-29 is newest first: bread (id-2), banana (id-1).
	out := env.mustRun("--format", "json", "delete", "--index", "2", "--date", "2025-06-29")

	resp := decodeResponse(t, out)
	var got deletedView
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.True(t, got.Removed)
	assert.Equal(t, "id-1", got.ID)
	require.NotNil(t, got.Entry)
	assert.Equal(t, "Banana Medium", got.Entry.Name)
	assert.Equal(t, "2025-06-29", got.Day.Date.String())
	require.Len(t, got.Day.Entries, 1)
	assert.Equal(t, "id-2", got.Day.Entries[0].ID)
}

func TestDelete_IndexOutOfRange(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "banana", "1")

	out := env.mustRun("delete", "--index", "5")
	assert.Contains(t, out, "(already deleted)")
	assert.Contains(t, out, "Log (1 entry)")
}

func TestDelete_RequiresOneTarget(t *testing.T) {
	env := newCLIEnv(t)

	_, _, code := env.run("delete")
	assert.Equal(t, ExitCommandError, code)

	_, _, code = env.run("delete", "id-1", "--index", "1")
	assert.Equal(t, ExitCommandError, code)
}

func TestDates(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "banana", "1", "--date", "2025-06-20")
	env.mustRun("log", "bread", "1", "--date", "2025-06-29")
	env.mustRun("log", "peanut_butter_tbsp", "2")
	env.mustRun("log", "banana", "1")

	out := env.mustRun("--format", "json", "dates")

	resp := decodeResponse(t, out)
	var rows []dateRow
	require.NoError(t, json.Unmarshal(resp.Data, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-06-30", rows[0].Date.String())
	assert.True(t, rows[0].IsToday)
	assert.Equal(t, 2, rows[0].Entries)
	assert.Equal(t, 293.0, rows[0].Totals.Calories)
	assert.Equal(t, "2025-06-29", rows[1].Date.String())
	assert.Equal(t, "2025-06-20", rows[2].Date.String())
	assert.False(t, rows[2].IsToday)

	text := env.mustRun("dates")
	assert.Contains(t, text, "2025-06-30 (today)    293 kcal  2 entries")
	assert.Contains(t, text, "2025-06-29             80 kcal  1 entry")
}

func TestDates_EmptyLog(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("--format", "json", "dates")

	resp := decodeResponse(t, out)
	assert.JSONEq(t, "[]", string(resp.Data))
}

func TestTrend(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "banana", "1", "--date", "2025-06-28")
	env.mustRun("log", "bread", "1")

	out := env.mustRun("--format", "json", "trend", "--days", "3")

	resp := decodeResponse(t, out)
	var got struct {
		Points  []view.DayTotal `json:"points"`
		Average struct {
			Calories float64 `json:"calories"`
		} `json:"average"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	require.Len(t, got.Points, 3)
	assert.Equal(t, "2025-06-28", got.Points[0].Date.String())
	assert.Equal(t, 105.0, got.Points[0].Totals.Calories)
	assert.Equal(t, 0, got.Points[1].Count)
	assert.Equal(t, 80.0, got.Points[2].Totals.Calories)
	assert.InDelta(t, 92.5, got.Average.Calories, 1e-9)

	text := env.mustRun("trend", "--days", "3")
	assert.Contains(t, text, "Sat 06-28    105 kcal "+strings.Repeat("#", chartWidth))
	assert.Contains(t, text, "Average over logged days: ")
}

func TestTrend_InvalidDays(t *testing.T) {
	env := newCLIEnv(t)

	_, _, code := env.run("trend", "--days", "0")
	assert.Equal(t, ExitCommandError, code)

	_, _, code = env.run("trend", "--days", "4611686018427387904")
	assert.Equal(t, ExitCommandError, code)

	_, _, code = env.run("trend", "--days", "32")
	assert.Equal(t, ExitCommandError, code, "beyond the 30-day window")

	env.mustRun("trend", "--days", "31")
}

func TestTrend_DefaultDaysFitsShortWindow(t *testing.T) {
	env := newCLIEnv(t)
	env.config = filepath.Join(env.dir, "config.yaml")
	require.NoError(t, os.WriteFile(env.config, []byte("retention_days: 2\n"), 0o644))

	out := env.mustRun("--format", "json", "trend")

	var got trendView
	require.NoError(t, json.Unmarshal(decodeResponse(t, out).Data, &got))
	assert.Len(t, got.Points, 3)
}

func TestExport_ToSQLiteAndBack(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "peanut_butter_tbsp", "2")
	env.mustRun("log", "banana", "1")
	dest := filepath.Join(env.dir, "backup", "log.db")

	out := env.mustRun("export", dest)
	assert.Contains(t, out, "Exported 2 entries to "+dest+" (sqlite).")

	fromDB := env.mustRun("--log", dest, "day")
	fromCSV := env.mustRun("day")
	assert.Equal(t, fromCSV, fromDB)
}

func TestExport_RejectsActiveLog(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "banana", "1")

	_, _, code := env.run("export", env.log)
	assert.Equal(t, ExitCommandError, code)
}

func TestExport_RejectsLinkToActiveLog(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "banana", "1")
	before, err := os.ReadFile(env.log)
	require.NoError(t, err)

	link := filepath.Join(env.dir, "alias.db")
	require.NoError(t, os.Symlink(env.log, link))

	_, _, code := env.run("export", link, "--to", "sqlite")
	assert.Equal(t, ExitCommandError, code)

	after, err := os.ReadFile(env.log)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestExport_UnknownBackend(t *testing.T) {
	env := newCLIEnv(t)

	_, _, code := env.run("export", filepath.Join(env.dir, "out.csv"), "--to", "parquet")
	assert.Equal(t, ExitCommandError, code)
}

func TestFoods(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("foods", "peanut")
	assert.Equal(t, "Peanut Butter Tbsp (peanut_butter_tbsp)\n     per 1 tablespoon(s): 94 kcal | 4.0g P | 3.0g C | 8.0g F\n", out)

	out = env.mustRun("foods", "kale")
	assert.Equal(t, "No matching foods.\n", out)

	out = env.mustRun("--format", "json", "foods")
	var rows []foodRow
	require.NoError(t, json.Unmarshal(decodeResponse(t, out).Data, &rows))
	assert.Len(t, rows, 7)
}

func TestFoods_MissingTable(t *testing.T) {
	env := newCLIEnv(t)
	env.foods = filepath.Join(env.dir, "nope.csv")

	_, _, code := env.run("foods")
	assert.Equal(t, ExitCommandError, code)
}

func TestConfigFile_RetentionAndPaths(t *testing.T) {
	env := newCLIEnv(t)
	env.config = filepath.Join(env.dir, "config.yaml")
	require.NoError(t, os.WriteFile(env.config, []byte("retention_days: 7\nbackend: sqlite\n"), 0o644))
	env.log = filepath.Join(env.dir, "log.sqlite3")

	_, _, code := env.run("log", "banana", "1", "--date", "2025-06-22")
	assert.Equal(t, ExitFailure, code, "before the 7-day window")

	env.mustRun("log", "banana", "1", "--date", "2025-06-23")
	_, err := os.Stat(env.log)
	require.NoError(t, err)
}

func TestConfigFile_Invalid(t *testing.T) {
	env := newCLIEnv(t)
	env.config = filepath.Join(env.dir, "config.yaml")
	require.NoError(t, os.WriteFile(env.config, []byte("retention_days: -1\n"), 0o644))

	out, _, code := env.run("--format", "json", "day")
	assert.Equal(t, ExitCommandError, code)
	assert.Equal(t, ErrCodeConfig, decodeResponse(t, out).Error.Code)
}

func TestRetention_PrunedOnNextSave(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("log", "banana", "1", "--date", "2025-05-31")

	clock := env.opts.Clock.(*testutil.FixedClock)
	clock.AdvanceDays(1)

	day := env.mustRun("day", "--date", "2025-05-31")
	assert.Contains(t, day, "No entries logged for this day.")

	data, err := os.ReadFile(env.log)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2025-05-31", "loading alone does not rewrite the file")

	env.mustRun("log", "bread", "1")
	data, err = os.ReadFile(env.log)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "2025-05-31")
}
