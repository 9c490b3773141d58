// Package lifecycle drives create/read/update/delete scripts against the
// recipe-book API and asserts the expected state after every step.
//
// Every operation is one HTTP call followed by assertions made through a
// TestingT, so scripts run unchanged under go test and under the CLI's
// Recorder. A failed assertion stops the script via FailNow.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/Gmacem/recipebook-e2e/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestingT is the part of *testing.T the runner uses.
type TestingT interface {
	require.TestingT
	Logf(format string, args ...any)
}

type tracked struct {
	res recipebook.Resource
	id  string
}

// Runner executes the steps of one scenario and tracks the records it
// creates so Cleanup can remove them.
type Runner struct {
	t        TestingT
	ctx      context.Context
	client   *recipebook.Client
	logger   *slog.Logger
	scenario string
	created  []tracked
}

// New returns a runner for one scenario. The client must carry the
// session's token.
func New(ctx context.Context, t TestingT, client *recipebook.Client, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		t:      t,
		ctx:    ctx,
		client: client,
		logger: logger,
	}
}

func (r *Runner) step(op string, args ...any) {
	r.logger.Debug(op, append([]any{"scenario", r.scenario}, args...)...)
}

// Authenticate logs in and fails the run when no token comes back.
func Authenticate(ctx context.Context, t TestingT, auth *session.Authenticator, email, password string) *session.Session {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	sess, err := auth.Authenticate(ctx, email, password)
	require.NoError(t, err, "Authentication should succeed")
	require.NotEmpty(t, sess.Token, "Authentication token should not be null or empty")
	return sess
}

// Create posts the payload and returns the server-assigned _id.
func (r *Runner) Create(res recipebook.Resource, payload any) string {
	r.step("create", "resource", res)
	resp, err := r.client.Create(r.ctx, res, payload)
	require.NoError(r.t, err, "Create %s request failed", res)
	require.Equal(r.t, http.StatusOK, resp.StatusCode,
		"Create %s failed. Response content: %s", res, resp.String())
	require.NotEmpty(r.t, resp.Body, "Create %s response should not be empty", res)

	rec, err := recipebook.DecodeRecord(resp.Body)
	require.NoError(r.t, err, "Create %s response should be a JSON object", res)
	id := rec.ID()
	require.NotEmpty(r.t, id, "%s ID should be present", res)

	r.created = append(r.created, tracked{res: res, id: id})
	return id
}

// ListAll fetches the full listing and checks it is a JSON array.
func (r *Runner) ListAll(res recipebook.Resource) []recipebook.Record {
	r.step("list", "resource", res)
	resp, err := r.client.List(r.ctx, res)
	require.NoError(r.t, err, "Get all %s request failed", res)
	require.Equal(r.t, http.StatusOK, resp.StatusCode, "Get all %s failed", res)
	require.NotEmpty(r.t, resp.Body, "Get all %s response should not be empty", res)

	records, err := recipebook.DecodeRecords(resp.Body)
	require.NoError(r.t, err, "Expected JSON array in get all %s response", res)
	return records
}

// ListAtLeast is ListAll with a minimum cardinality.
func (r *Runner) ListAtLeast(res recipebook.Resource, n int) []recipebook.Record {
	records := r.ListAll(res)
	require.GreaterOrEqual(r.t, len(records), n, "There should be at least %d %s", n, res)
	return records
}

// GetByID fetches one record and checks its _id.
func (r *Runner) GetByID(res recipebook.Resource, id string) recipebook.Record {
	r.step("get", "resource", res, "id", id)
	resp, err := r.client.Get(r.ctx, res, id)
	require.NoError(r.t, err, "Get %s by ID request failed", res)
	require.Equal(r.t, http.StatusOK, resp.StatusCode, "Get %s by ID failed", res)
	require.NotEmpty(r.t, resp.Body, "Get %s by ID response should not be empty", res)
	require.False(r.t, resp.IsNull(), "%s %s should exist", res, id)

	rec, err := recipebook.DecodeRecord(resp.Body)
	require.NoError(r.t, err, "Get %s by ID response should be a JSON object", res)
	require.Equal(r.t, id, rec.ID(), "%s ID should match", res)
	return rec
}

// Update puts the payload, then reads the record back and checks every
// payload field took effect.
func (r *Runner) Update(res recipebook.Resource, id string, payload any) recipebook.Record {
	r.step("update", "resource", res, "id", id)
	resp, err := r.client.Update(r.ctx, res, id, payload)
	require.NoError(r.t, err, "Edit %s request failed", res)
	require.Equal(r.t, http.StatusOK, resp.StatusCode,
		"Edit %s failed. Response content: %s", res, resp.String())

	rec := r.GetByID(res, id)
	r.ExpectPayload(rec, payload)
	return rec
}

// Delete removes the record and checks that a lookup afterwards answers
// 200 with the body null. A 404 is a failure.
func (r *Runner) Delete(res recipebook.Resource, id string) {
	r.step("delete", "resource", res, "id", id)
	resp, err := r.client.Delete(r.ctx, res, id)
	require.NoError(r.t, err, "Delete %s request failed", res)
	require.Equal(r.t, http.StatusOK, resp.StatusCode, "Delete %s failed", res)

	r.Keep(res, id)
	r.ExpectGone(res, id)
}

// ExpectGone checks the null sentinel for id.
func (r *Runner) ExpectGone(res recipebook.Resource, id string) {
	resp, err := r.client.Get(r.ctx, res, id)
	require.NoError(r.t, err, "Verify deleted %s request failed", res)
	require.Equal(r.t, http.StatusOK, resp.StatusCode, "Verify deleted %s should return 200 OK", res)
	require.Equal(r.t, "null", resp.String(), "Deleted %s should not be found", res)
}

// FindByField returns the first listed record whose field renders as value.
func (r *Runner) FindByField(res recipebook.Resource, field, value string) recipebook.Record {
	records := r.ListAll(res)
	i := slices.IndexFunc(records, func(rec recipebook.Record) bool {
		return rec.String(field) == value
	})
	require.GreaterOrEqual(r.t, i, 0, "%s with %s %q should exist", res, field, value)
	return records[i]
}

// ExpectFields compares every expected field against rec. Mismatches are
// reported one by one; the script stops after all are reported.
func (r *Runner) ExpectFields(rec recipebook.Record, expected recipebook.Record) {
	ok := true
	for _, key := range sortedKeys(expected) {
		if !r.matchValue(key, expected[key], rec[key]) {
			ok = false
		}
	}
	if !ok {
		r.t.FailNow()
	}
}

// ExpectPayload is ExpectFields with the payload's JSON form as expectation.
func (r *Runner) ExpectPayload(rec recipebook.Record, payload any) {
	expected, err := recipebook.Fields(payload)
	require.NoError(r.t, err, "payload should encode as a JSON object")
	r.ExpectFields(rec, expected)
}

func (r *Runner) matchValue(path string, expected, actual any) bool {
	switch exp := expected.(type) {
	case map[string]any:
		obj, isObj := actual.(map[string]any)
		if !assert.True(r.t, isObj, "%s should be a JSON object", path) {
			return false
		}
		ok := true
		for _, key := range sortedKeys(exp) {
			if !r.matchValue(path+"."+key, exp[key], obj[key]) {
				ok = false
			}
		}
		return ok
	case []any:
		arr, isArr := actual.([]any)
		if !assert.True(r.t, isArr, "%s should be a JSON array", path) {
			return false
		}
		if !assert.Len(r.t, arr, len(exp), "%s array should have the same number of elements as the input value", path) {
			return false
		}
		ok := true
		for i := range exp {
			if !r.matchValue(fmt.Sprintf("%s[%d]", path, i), exp[i], arr[i]) {
				ok = false
			}
		}
		return ok
	case string:
		// A reference sent as an id may come back populated.
		if obj, isObj := actual.(map[string]any); isObj {
			return assert.Equal(r.t, exp, recipebook.Text(obj["_id"]), "%s ID should match the input value", path)
		}
	}
	return assert.Equal(r.t, recipebook.Text(expected), recipebook.Text(actual), "%s should match the input value", path)
}

// Keep stops tracking a created record so Cleanup leaves it in place.
func (r *Runner) Keep(res recipebook.Resource, id string) {
	r.created = slices.DeleteFunc(r.created, func(c tracked) bool {
		return c.res == res && c.id == id
	})
}

// Cleanup deletes records created by this runner that the script did not
// delete itself. Errors are logged, not asserted.
func (r *Runner) Cleanup() {
	for i := len(r.created) - 1; i >= 0; i-- {
		c := r.created[i]
		if _, err := r.client.Delete(context.WithoutCancel(r.ctx), c.res, c.id); err != nil {
			r.logger.Warn("Cleanup failed", "resource", c.res, "id", c.id, "error", err)
			continue
		}
		r.logger.Debug("Cleaned up", "resource", c.res, "id", c.id)
	}
	r.created = nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
