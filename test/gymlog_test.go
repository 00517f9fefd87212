package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/internal/gymlog/handlers"
	"github.com/2beens/gymlog/internal/gymlog/sessions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "drilon"

func (s *IntegrationTestSuite) do(ctx context.Context, method, path, body string) (int, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) addSession(ctx context.Context, body string) sessions.SessionRecord {
	t := s.T()
	status, respBytes := s.do(ctx, "POST", "/gymlog/sessions", body)
	require.Equal(t, http.StatusCreated, status, string(respBytes))

	var stored sessions.SessionRecord
	require.NoError(t, json.Unmarshal(respBytes, &stored))
	require.NotEmpty(t, stored.ID)
	return stored
}

func (s *IntegrationTestSuite) getLog(ctx context.Context, query string) []analyzer.LogRow {
	t := s.T()
	status, respBytes := s.do(ctx, "GET", "/gymlog/log"+query, "")
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var rows []analyzer.LogRow
	require.NoError(t, json.Unmarshal(respBytes, &rows))
	return rows
}

func (s *IntegrationTestSuite) TestAppendAndAggregate() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	assert.Empty(t, s.getLog(ctx, ""))

	first := s.addSession(ctx, fmt.Sprintf(`{
		"user": %q, "exercise": "Squat", "date": "2024-03-01",
		"set_reps": [5, 3, 8], "set_weights": [100, 110, 90]
	}`, testUser))
	assert.Equal(t, "2024-03-01", first.Date)

	// the first query is cached, the next append must invalidate it
	require.Len(t, s.getLog(ctx, ""), 1)

	second := s.addSession(ctx, fmt.Sprintf(`{
		"user": %q, "exercise": "Squat", "date": "2024-03-04",
		"set_reps": [2, 10], "set_weights": [120, 60], "comment": "new belt"
	}`, testUser))

	rows := s.getLog(ctx, "")
	require.Len(t, rows, 2)

	// newest first
	assert.Equal(t, "new belt", rows[0].Comment)
	assert.Equal(t, 120.0, rows[0].BestSetWeight)
	assert.Equal(t, 2, rows[0].BestSetReps)
	assert.Equal(t, 60.0, rows[0].WorstSetWeight)
	assert.Equal(t, 10, rows[0].WorstSetReps)
	assert.Equal(t, 840.0, rows[0].TotalWeightLifted)

	assert.Equal(t, 110.0, rows[1].BestSetWeight)
	assert.Equal(t, 3, rows[1].BestSetReps)
	assert.Equal(t, 90.0, rows[1].WorstSetWeight)
	assert.Equal(t, 8, rows[1].WorstSetReps)
	assert.Equal(t, 1550.0, rows[1].TotalWeightLifted)

	created, err := sessions.ParseCreated(second.ID)
	require.NoError(t, err)
	assert.True(t, rows[0].Created.Equal(created))

	// filtering
	assert.Len(t, s.getLog(ctx, "?from=2024-03-02"), 1)
	assert.Empty(t, s.getLog(ctx, "?exercise=Deadlift"))

	status, respBytes := s.do(ctx, "GET", fmt.Sprintf("/gymlog/latest-weight?user=%s&exercise=Squat", testUser), "")
	require.Equal(t, http.StatusOK, status)
	var latest handlers.LatestWeightResponse
	require.NoError(t, json.Unmarshal(respBytes, &latest))
	assert.Equal(t, 60.0, latest.Weight)

	status, respBytes = s.do(ctx, "GET", "/gymlog/log/bounds", "")
	require.Equal(t, http.StatusOK, status)
	var bounds handlers.LogBoundsResponse
	require.NoError(t, json.Unmarshal(respBytes, &bounds))
	assert.Equal(t, "2024-03-01", bounds.From)
	assert.Equal(t, "2024-03-05", bounds.To)
	assert.Equal(t, []string{testUser}, bounds.Users)
}

func (s *IntegrationTestSuite) TestAppendRejected() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "unknown user",
			body:           `{"user":"mallory","exercise":"Squat","set_reps":[5],"set_weights":[100]}`,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "unknown exercise",
			body:           fmt.Sprintf(`{"user":%q,"exercise":"Curl","set_reps":[5],"set_weights":[20]}`, testUser),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "too many sets",
			body:           fmt.Sprintf(`{"user":%q,"exercise":"Squat","set_reps":[5,5,5,5,5,5],"set_weights":[1,1,1,1,1,1]}`, testUser),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "mismatched sets",
			body:           fmt.Sprintf(`{"user":%q,"exercise":"Squat","set_reps":[5,5],"set_weights":[100]}`, testUser),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad date",
			body:           fmt.Sprintf(`{"user":%q,"exercise":"Squat","date":"01.03.2024","set_reps":[5],"set_weights":[100]}`, testUser),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		status, respBytes := s.do(ctx, "POST", "/gymlog/sessions", tc.body)
		assert.Equal(t, tc.expectedStatus, status, "%s: %s", tc.name, respBytes)
	}

	assert.Empty(t, s.getLog(ctx, ""))
}

func (s *IntegrationTestSuite) TestInvalidDocumentsSkipped() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	s.addSession(ctx, fmt.Sprintf(`{
		"user": %q, "exercise": "Deadlift", "date": "2024-03-02",
		"set_reps": [5], "set_weights": [140]
	}`, testUser))

	// written around the API: no set weights, and the placeholder document
	_, err := s.DB.Exec(
		`INSERT INTO gym_session (id, document) VALUES ($1, $2), ($3, $4);`,
		"2024-03-02 10:00:00.000000", fmt.Sprintf(`{"user":%q,"exercise":"Squat","date":"2024-03-02","set_reps":[5]}`, testUser),
		"example", `{}`,
	)
	require.NoError(t, err)
	s.Require().NoError(s.redisClient.FlushAll(ctx).Err())

	rows := s.getLog(ctx, "")
	require.Len(t, rows, 1)
	assert.Equal(t, "Deadlift", rows[0].Exercise)
}

func (s *IntegrationTestSuite) TestExportAndUsers() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	s.addSession(ctx, fmt.Sprintf(`{
		"user": %q, "exercise": "Bench press", "date": "2024-03-02",
		"set_reps": [5, 5], "set_weights": [80, 82.5], "comment": "paused, 1s"
	}`, testUser))

	status, respBytes := s.do(ctx, "GET", "/gymlog/log/export?format=csv", "")
	require.Equal(t, http.StatusOK, status)
	lines := strings.Split(strings.TrimSpace(string(respBytes)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(analyzer.Columns, ","), lines[0])
	assert.Contains(t, lines[1], `"[80, 82.5]"`)
	assert.Contains(t, lines[1], `"paused, 1s"`)

	status, respBytes = s.do(ctx, "GET", "/gymlog/users", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, fmt.Sprintf(`{"users":[%q],"default_user":%q}`, testUser, testUser), string(respBytes))

	status, respBytes = s.do(ctx, "GET", "/gymlog/form", "")
	require.Equal(t, http.StatusOK, status)
	var form analyzer.FormSettings
	require.NoError(t, json.Unmarshal(respBytes, &form))
	assert.Equal(t, 80.0, form.Weights["Bench press"].Default)
	assert.Equal(t, analyzer.DefaultWeight, form.Weights["Squat"].Default)
}
