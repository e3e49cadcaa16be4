package batch_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/passcheck/pkg/batch"
	"github.com/dmitrymomot/passcheck/pkg/logger"
	"github.com/dmitrymomot/passcheck/pkg/pwned"
	"github.com/dmitrymomot/passcheck/pkg/validator"
)

var errLookupDown = errors.New("lookup down")

// fakeLookup answers range queries from memory. Candidates listed in broken
// make their prefix fail.
type fakeLookup struct {
	records map[string][]pwned.Record
	broken  map[string]bool
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{records: map[string][]pwned.Record{}, broken: map[string]bool{}}
}

func (f *fakeLookup) breach(passwords ...string) *fakeLookup {
	for _, p := range passwords {
		d := pwned.Sum(p)
		f.records[d.Prefix()] = append(f.records[d.Prefix()], pwned.Record{Suffix: d.Suffix(), Count: 7})
	}
	return f
}

func (f *fakeLookup) fail(passwords ...string) *fakeLookup {
	for _, p := range passwords {
		f.broken[pwned.Sum(p).Prefix()] = true
	}
	return f
}

func (f *fakeLookup) Range(_ context.Context, prefix string) ([]pwned.Record, error) {
	if f.broken[prefix] {
		return nil, errLookupDown
	}
	return f.records[prefix], nil
}

type countingRecorder struct {
	mu    sync.Mutex
	calls map[string]int
}

func (r *countingRecorder) ObserveCandidate(status, rule string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[status+"/"+rule]++
}

type logRecord struct {
	Msg    string `json:"msg"`
	Level  string `json:"level"`
	Seq    int    `json:"seq"`
	Status string `json:"status"`
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
	RunID  string `json:"run_id"`
	Error  string `json:"error"`
}

func parseLog(t *testing.T, buf *bytes.Buffer) []logRecord {
	t.Helper()
	var out []logRecord
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var rec logRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec), sc.Text())
		out = append(out, rec)
	}
	return out
}

func perCandidate(records []logRecord) []logRecord {
	var out []logRecord
	for _, r := range records {
		if r.Seq > 0 {
			out = append(out, r)
		}
	}
	return out
}

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return logger.New(
		logger.WithOutput(buf),
		logger.WithFormat(logger.FormatJSON),
		logger.WithContextValue("run_id", batch.RunIDKey{}),
	)
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	lookup := newFakeLookup().breach("Password1!")
	chain := validator.NewDefaultChain(lookup)

	var logs bytes.Buffer
	rec := &countingRecorder{}
	var hooked []batch.Result

	runner := batch.NewRunner(chain,
		batch.WithLogger(jsonLogger(&logs)),
		batch.WithRecorder(rec),
		batch.WithResultHook(func(r batch.Result) { hooked = append(hooked, r) }),
		batch.WithRunID("run-1"),
	)

	input := "aQ1w./I9\nasdfghjk\nshort\nPassword1!\r\nZażółć1!\n"
	var out bytes.Buffer
	report, err := runner.Run(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)

	assert.Equal(t, "aQ1w./I9\nZażółć1!\n", out.String())

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 3, report.Rejected)
	assert.Zero(t, report.Failed)
	assert.False(t, report.Aborted)
	assert.Equal(t, map[string]int{
		validator.RuleDigit:  1,
		validator.RuleLength: 1,
		validator.RulePwned:  1,
	}, report.RejectedByRule)

	records := perCandidate(parseLog(t, &logs))
	require.Len(t, records, 5)
	for i, r := range records {
		assert.Equal(t, i+1, r.Seq)
		assert.Equal(t, "run-1", r.RunID)
	}
	assert.Equal(t, "password is safe", records[0].Msg)
	assert.Equal(t, "accepted", records[0].Status)
	assert.Equal(t, "password is not safe", records[1].Msg)
	assert.Equal(t, validator.RuleDigit, records[1].Rule)
	assert.Equal(t, "password must contain at least one digit", records[1].Reason)
	assert.Equal(t, validator.RuleLength, records[2].Rule)
	assert.Equal(t, validator.RulePwned, records[3].Rule)
	assert.Equal(t, "password has been pwned", records[3].Reason)

	assert.Equal(t, map[string]int{
		"accepted/":       2,
		"rejected/digit":  1,
		"rejected/length": 1,
		"rejected/pwned":  1,
	}, rec.calls)

	require.Len(t, hooked, 5)
	assert.Equal(t, "Password1!", hooked[3].Candidate)
	assert.Equal(t, batch.StatusRejected, hooked[3].Status)
}

func TestRunner_BlankLines(t *testing.T) {
	t.Parallel()

	var results []batch.Result
	runner := batch.NewRunner(validator.NewDefaultChain(newFakeLookup()),
		batch.WithResultHook(func(r batch.Result) { results = append(results, r) }),
	)

	var out bytes.Buffer
	report, err := runner.Run(context.Background(), strings.NewReader("\naQ1w./I9\n"), &out)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Seq)
	assert.Equal(t, batch.StatusRejected, results[0].Status)
	assert.Equal(t, validator.RuleLength, results[0].Failure.Rule)
	assert.Equal(t, 2, results[1].Seq)
	assert.Equal(t, "aQ1w./I9\n", out.String())
	assert.Equal(t, 2, report.Total)
}

func TestRunner_SkipPolicy(t *testing.T) {
	t.Parallel()

	lookup := newFakeLookup().fail("Unknown1!")

	var logs bytes.Buffer
	runner := batch.NewRunner(validator.NewDefaultChain(lookup),
		batch.WithLogger(jsonLogger(&logs)),
	)

	var out bytes.Buffer
	report, err := runner.Run(context.Background(), strings.NewReader("Unknown1!\naQ1w./I9\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, "aQ1w./I9\n", out.String())
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Accepted)
	assert.Zero(t, report.Rejected)
	assert.Empty(t, report.RejectedByRule)

	records := perCandidate(parseLog(t, &logs))
	require.Len(t, records, 2)
	assert.Equal(t, "password could not be checked", records[0].Msg)
	assert.Equal(t, "WARN", records[0].Level)
	assert.Equal(t, "failed", records[0].Status)
	assert.Contains(t, records[0].Error, "lookup down")
	assert.Empty(t, records[0].Rule, "lookup failures are not a verdict")
}

func TestRunner_AbortPolicy(t *testing.T) {
	t.Parallel()

	lookup := newFakeLookup().fail("Unknown1!")

	var results []batch.Result
	runner := batch.NewRunner(validator.NewDefaultChain(lookup),
		batch.WithPolicy(batch.PolicyAbort),
		batch.WithResultHook(func(r batch.Result) { results = append(results, r) }),
	)

	var out bytes.Buffer
	report, err := runner.Run(context.Background(), strings.NewReader("aQ1w./I9\nUnknown1!\nZażółć1!\n"), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrAborted)
	assert.ErrorIs(t, err, validator.ErrInfrastructure)
	assert.ErrorIs(t, err, errLookupDown)

	assert.Empty(t, out.String(), "aborted runs write nothing")
	assert.True(t, report.Aborted)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 1, report.Failed)

	require.Len(t, results, 2)
	assert.Equal(t, batch.StatusFailed, results[1].Status)
}

func TestRunner_Concurrency(t *testing.T) {
	t.Parallel()

	var input strings.Builder
	var want strings.Builder
	var breachedList []string
	for i := range 60 {
		p := fmt.Sprintf("aQ1w./I9-%02d", i)
		input.WriteString(p + "\n")
		if i%3 == 0 {
			breachedList = append(breachedList, p)
			continue
		}
		want.WriteString(p + "\n")
	}

	var seqs []int
	runner := batch.NewRunner(validator.NewDefaultChain(newFakeLookup().breach(breachedList...)),
		batch.WithConcurrency(8),
		batch.WithResultHook(func(r batch.Result) { seqs = append(seqs, r.Seq) }),
	)

	var out bytes.Buffer
	report, err := runner.Run(context.Background(), strings.NewReader(input.String()), &out)
	require.NoError(t, err)

	assert.Equal(t, want.String(), out.String())
	assert.Equal(t, 20, report.RejectedByRule[validator.RulePwned])
	require.Len(t, seqs, 60)
	for i, s := range seqs {
		assert.Equal(t, i+1, s)
	}
}

func TestRunner_SourceUnavailable(t *testing.T) {
	t.Parallel()

	runner := batch.NewRunner(validator.NewDefaultChain(newFakeLookup()))

	var out bytes.Buffer
	report, err := runner.Run(context.Background(), brokenReader{}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrSourceUnavailable)
	assert.NotNil(t, report)
	assert.Zero(t, report.Total)
	assert.Empty(t, out.String())
}

func TestRunner_InvalidEncodingWritesNothing(t *testing.T) {
	t.Parallel()

	var results []batch.Result
	runner := batch.NewRunner(validator.NewChain(validator.MinLength(8)),
		batch.WithResultHook(func(r batch.Result) { results = append(results, r) }),
	)

	var out bytes.Buffer
	_, err := runner.Run(context.Background(), strings.NewReader("aQ1w./I9\xff\n"), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrSourceUnavailable)
	assert.ErrorIs(t, err, batch.ErrInvalidEncoding)
	assert.Empty(t, out.String())
	assert.Empty(t, results)
}

func TestRunner_OutputFailed(t *testing.T) {
	t.Parallel()

	runner := batch.NewRunner(validator.NewDefaultChain(newFakeLookup()))

	_, err := runner.Run(context.Background(), strings.NewReader("aQ1w./I9\n"), brokenWriter{})
	assert.ErrorIs(t, err, batch.ErrOutputFailed)
}

func TestRunner_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := batch.NewRunner(validator.NewDefaultChain(newFakeLookup()))

	var out bytes.Buffer
	report, err := runner.Run(ctx, strings.NewReader("aQ1w./I9\n"), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrAborted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, report.Aborted)
	assert.Empty(t, out.String())
}

func TestRunner_GeneratesRunID(t *testing.T) {
	t.Parallel()

	runner := batch.NewRunner(validator.NewDefaultChain(newFakeLookup()))
	report, err := runner.Run(context.Background(), strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Len(t, report.RunID, 36)
}

func TestReport_YAML(t *testing.T) {
	t.Parallel()

	lookup := newFakeLookup().breach("Password1!")
	runner := batch.NewRunner(validator.NewDefaultChain(lookup), batch.WithRunID("run-7"))

	report, err := runner.Run(context.Background(), strings.NewReader("Password1!\naQ1w./I9\n"), &bytes.Buffer{})
	require.NoError(t, err)

	data, err := report.YAML()
	require.NoError(t, err)

	doc := string(data)
	assert.Contains(t, doc, "run_id: run-7")
	assert.Contains(t, doc, "total: 2")
	assert.Contains(t, doc, "accepted: 1")
	assert.Contains(t, doc, "pwned: 1")
	assert.Contains(t, doc, "aborted: false")
	assert.NotContains(t, doc, "Password1!")
}
