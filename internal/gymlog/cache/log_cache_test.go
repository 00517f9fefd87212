package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/internal/gymlog/cache"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	pkgtesting "github.com/2beens/gymlog/pkg/testing"

	"github.com/go-redis/redismock/v8"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper"))
}

const generationKey = "gymlog::log::generation"

func testRows() []analyzer.LogRow {
	return []analyzer.LogRow{
		{
			User:              "ana",
			Date:              time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
			Exercise:          "Squat",
			SetWeights:        []float64{100},
			SetReps:           []int{5},
			BestSetWeight:     100,
			BestSetReps:       5,
			WorstSetWeight:    100,
			WorstSetReps:      5,
			TotalWeightLifted: 500,
			Created:           time.Date(2024, 3, 9, 17, 0, 0, 0, time.UTC),
		},
	}
}

func TestLogKey(t *testing.T) {
	from := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	a, err := cache.LogKey(3, analyzer.LogFilter{Users: []string{"mia", "ana"}, From: &from})
	require.NoError(t, err)
	b, err := cache.LogKey(3, analyzer.LogFilter{Users: []string{"ana", "mia", "ana"}, From: &from})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Regexp(t, `^gymlog::log::3::[0-9a-f]{16}$`, a)

	c, err := cache.LogKey(4, analyzer.LogFilter{Users: []string{"mia", "ana"}, From: &from})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := cache.LogKey(3, analyzer.LogFilter{Users: []string{"ana"}})
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestLogCache_MissThenHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	querier := NewMocklogQuerier(ctrl)
	db, mock := redismock.NewClientMock()
	metricsManager := metrics.NewTestManager()
	c := cache.NewLogCache(db, querier, time.Minute, metricsManager)

	filter := analyzer.LogFilter{Users: []string{"ana"}}
	key, err := cache.LogKey(2, filter)
	require.NoError(t, err)
	rows := testRows()
	rowsBytes, err := json.Marshal(rows)
	require.NoError(t, err)

	// miss
	mock.ExpectGet(generationKey).SetVal("2")
	mock.ExpectGet(key).RedisNil()
	querier.EXPECT().Query(gomock.Any(), filter).Return(rows, nil)
	mock.ExpectSet(key, rowsBytes, time.Minute).SetVal("OK")

	got, err := c.Query(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	// hit
	mock.ExpectGet(generationKey).SetVal("2")
	mock.ExpectGet(key).SetVal(string(rowsBytes))

	got, err = c.Query(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterLogCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterLogCache.WithLabelValues("hit")))
}

func TestLogCache_NoGenerationYet(t *testing.T) {
	ctrl := gomock.NewController(t)
	querier := NewMocklogQuerier(ctrl)
	db, mock := redismock.NewClientMock()
	c := cache.NewLogCache(db, querier, time.Minute, nil)

	key, err := cache.LogKey(0, analyzer.LogFilter{})
	require.NoError(t, err)
	rowsBytes, err := json.Marshal(testRows())
	require.NoError(t, err)

	mock.ExpectGet(generationKey).RedisNil()
	mock.ExpectGet(key).SetVal(string(rowsBytes))

	got, err := c.Query(context.Background(), analyzer.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, testRows(), got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogCache_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	querier := NewMocklogQuerier(ctrl)
	db, mock := redismock.NewClientMock()
	c := cache.NewLogCache(db, querier, time.Minute, nil)

	filter := analyzer.LogFilter{}
	oldKey, err := cache.LogKey(5, filter)
	require.NoError(t, err)
	newKey, err := cache.LogKey(6, filter)
	require.NoError(t, err)
	rows := testRows()
	rowsBytes, err := json.Marshal(rows)
	require.NoError(t, err)

	mock.ExpectGet(generationKey).SetVal("5")
	mock.ExpectGet(oldKey).SetVal(string(rowsBytes))
	_, err = c.Query(context.Background(), filter)
	require.NoError(t, err)

	mock.ExpectIncr(generationKey).SetVal(6)
	c.Invalidate(context.Background())

	// the next query lands on a fresh key and recomputes
	mock.ExpectGet(generationKey).SetVal("6")
	mock.ExpectGet(newKey).RedisNil()
	querier.EXPECT().Query(gomock.Any(), filter).Return(rows, nil)
	mock.ExpectSet(newKey, rowsBytes, time.Minute).SetVal("OK")
	_, err = c.Query(context.Background(), filter)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogCache_Invalidate_IncrFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	querier := NewMocklogQuerier(ctrl)
	db, mock := redismock.NewClientMock()
	c := cache.NewLogCache(db, querier, time.Minute, nil)

	userKey, err := cache.LogKey(3, analyzer.LogFilter{Users: []string{"ana"}})
	require.NoError(t, err)
	allKey, err := cache.LogKey(3, analyzer.LogFilter{})
	require.NoError(t, err)

	mock.ExpectIncr(generationKey).SetErr(errors.New("READONLY replica"))
	mock.ExpectGet(generationKey).SetVal("3")
	mock.ExpectScan(0, "gymlog::log::3::*", 100).SetVal([]string{userKey}, 7)
	mock.ExpectScan(7, "gymlog::log::3::*", 100).SetVal([]string{allKey}, 0)
	mock.ExpectDel(userKey, allKey).SetVal(2)

	c.Invalidate(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogCache_Invalidate_RedisDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	querier := NewMocklogQuerier(ctrl)
	db, mock := redismock.NewClientMock()
	c := cache.NewLogCache(db, querier, time.Minute, nil)

	// nothing can be dropped, the TTL bounds staleness
	mock.ExpectIncr(generationKey).SetErr(errors.New("connection refused"))
	mock.ExpectGet(generationKey).SetErr(errors.New("connection refused"))

	c.Invalidate(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogCache_RedisDownFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	querier := NewMocklogQuerier(ctrl)
	db, mock := redismock.NewClientMock()
	c := cache.NewLogCache(db, querier, time.Minute, nil)

	mock.ExpectGet(generationKey).SetErr(errors.New("connection refused"))
	querier.EXPECT().Query(gomock.Any(), analyzer.LogFilter{}).Return(testRows(), nil)

	got, err := c.Query(context.Background(), analyzer.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, testRows(), got)

	// invalidation failures are swallowed
	mock.ExpectIncr(generationKey).SetErr(errors.New("connection refused"))
	assert.NotPanics(t, func() {
		c.Invalidate(context.Background())
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogCache_QuerierErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	querier := NewMocklogQuerier(ctrl)
	db, mock := redismock.NewClientMock()
	c := cache.NewLogCache(db, querier, time.Minute, nil)

	key, err := cache.LogKey(1, analyzer.LogFilter{})
	require.NoError(t, err)
	storeErr := errors.New("store unavailable")

	mock.ExpectGet(generationKey).SetVal("1")
	mock.ExpectGet(key).RedisNil()
	querier.EXPECT().Query(gomock.Any(), analyzer.LogFilter{}).Return(nil, storeErr)

	_, err = c.Query(context.Background(), analyzer.LogFilter{})
	assert.ErrorIs(t, err, storeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogCache_RealRedis(t *testing.T) {
	ctx, rdb := pkgtesting.GetRedisClientAndCtx(t)

	ctrl := gomock.NewController(t)
	querier := NewMocklogQuerier(ctrl)
	metricsManager := metrics.NewTestManager()
	c := cache.NewLogCache(rdb, querier, time.Minute, metricsManager)

	// start from a generation no other run has cached under
	c.Invalidate(ctx)

	filter := analyzer.LogFilter{Exercises: []string{"Squat"}}
	querier.EXPECT().Query(gomock.Any(), filter).Return(testRows(), nil).Times(2)

	for i := 0; i < 3; i++ {
		got, err := c.Query(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, testRows(), got)
	}

	c.Invalidate(ctx)
	_, err := c.Query(ctx, filter)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metricsManager.CounterLogCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metricsManager.CounterLogCache.WithLabelValues("miss")))
}
