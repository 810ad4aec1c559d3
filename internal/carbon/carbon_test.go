package carbon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"backend/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "console", "stdout"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// stubProvider 可编程的内层提供方替身
type stubProvider struct {
	intensity Intensity
	err       error
	calls     int
}

func (s *stubProvider) IntensityAt(ctx context.Context, lat, lon float64) (Intensity, error) {
	s.calls++
	if s.err != nil {
		return Intensity{}, s.err
	}
	return s.intensity, nil
}

func TestElectricityMapsClient(t *testing.T) {
	t.Run("请求路径与参数", func(t *testing.T) {
		var gotPath, gotToken, gotDatetime, gotLat, gotLon string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotToken = r.Header.Get("auth-token")
			gotDatetime = r.URL.Query().Get("datetime")
			gotLat = r.URL.Query().Get("lat")
			gotLon = r.URL.Query().Get("lon")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"carbonIntensity": 52.5, "zone": "FR", "datetime": "2026-08-24T12:00:00Z"}`))
		}))
		defer server.Close()

		client := NewElectricityMapsClient(server.URL, "test-token", 5*time.Second)
		intensity, err := client.IntensityAt(context.Background(), 48.85, 2.35)
		require.NoError(t, err)

		assert.Equal(t, "/v3/carbon-intensity/past", gotPath)
		assert.Equal(t, "test-token", gotToken)
		assert.Equal(t, "48.85", gotLat)
		assert.Equal(t, "2.35", gotLon)
		// datetime 形如 "2006-01-02 15:04"，Query() 会把加号还原为空格
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`, gotDatetime)

		assert.InDelta(t, 52.5, intensity.GramsPerKWh, 1e-9)
		assert.InDelta(t, 48.85, intensity.Lat, 1e-9)
		assert.InDelta(t, 2.35, intensity.Lon, 1e-9)
		assert.False(t, intensity.Fallback)
		assert.False(t, intensity.FetchedAt.IsZero())
	})

	t.Run("响应缺少carbonIntensity字段报错", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"zone": "FR"}`))
		}))
		defer server.Close()

		client := NewElectricityMapsClient(server.URL, "test-token", 5*time.Second)
		_, err := client.IntensityAt(context.Background(), 48.85, 2.35)
		assert.Error(t, err)
	})

	t.Run("服务端错误状态报错", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewElectricityMapsClient(server.URL, "bad-token", 5*time.Second)
		_, err := client.IntensityAt(context.Background(), 48.85, 2.35)
		assert.Error(t, err)
	})
}

func TestFallbackProvider(t *testing.T) {
	t.Run("内层成功时原样透传", func(t *testing.T) {
		inner := &stubProvider{intensity: Intensity{GramsPerKWh: 60, Lat: 1, Lon: 2}}
		provider := NewFallbackProvider(inner, 475)

		got, err := provider.IntensityAt(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.InDelta(t, 60.0, got.GramsPerKWh, 1e-9)
		assert.False(t, got.Fallback)
	})

	t.Run("内层失败时降级且不返回错误", func(t *testing.T) {
		inner := &stubProvider{err: errors.New("timeout")}
		provider := NewFallbackProvider(inner, 475)

		got, err := provider.IntensityAt(context.Background(), 48.85, 2.35)
		require.NoError(t, err)
		assert.True(t, got.Fallback)
		assert.InDelta(t, 475.0, got.GramsPerKWh, 1e-9)
		assert.InDelta(t, 48.85, got.Lat, 1e-9)
		assert.InDelta(t, 2.35, got.Lon, 1e-9)
	})
}

func TestCachedProvider(t *testing.T) {
	t.Run("缓存窗口内同一坐标只查询一次", func(t *testing.T) {
		inner := &stubProvider{intensity: Intensity{GramsPerKWh: 42}}
		provider := NewCachedProvider(inner, NewMemoryStore(), time.Minute)

		for i := 0; i < 3; i++ {
			got, err := provider.IntensityAt(context.Background(), 48.85, 2.35)
			require.NoError(t, err)
			assert.InDelta(t, 42.0, got.GramsPerKWh, 1e-9)
		}
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("不同坐标不共享缓存", func(t *testing.T) {
		inner := &stubProvider{intensity: Intensity{GramsPerKWh: 42}}
		provider := NewCachedProvider(inner, NewMemoryStore(), time.Minute)

		_, err := provider.IntensityAt(context.Background(), 48.85, 2.35)
		require.NoError(t, err)
		_, err = provider.IntensityAt(context.Background(), 40.71, -74.01)
		require.NoError(t, err)

		assert.Equal(t, 2, inner.calls)
	})

	t.Run("TTL过期后重新查询", func(t *testing.T) {
		inner := &stubProvider{intensity: Intensity{GramsPerKWh: 42}}
		provider := NewCachedProvider(inner, NewMemoryStore(), time.Millisecond)

		_, err := provider.IntensityAt(context.Background(), 48.85, 2.35)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		_, err = provider.IntensityAt(context.Background(), 48.85, 2.35)
		require.NoError(t, err)
		assert.Equal(t, 2, inner.calls)
	})

	t.Run("内层失败不写缓存", func(t *testing.T) {
		inner := &stubProvider{err: errors.New("unavailable")}
		store := NewMemoryStore()
		provider := NewCachedProvider(inner, store, time.Minute)

		_, err := provider.IntensityAt(context.Background(), 48.85, 2.35)
		assert.Error(t, err)

		_, ok := store.Get(context.Background(), cacheKey(48.85, 2.35))
		assert.False(t, ok)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Run("未写入的键未命中", func(t *testing.T) {
		store := NewMemoryStore()
		_, ok := store.Get(context.Background(), "carbon:intensity:0.00:0.00")
		assert.False(t, ok)
	})

	t.Run("写入后命中", func(t *testing.T) {
		store := NewMemoryStore()
		store.Set(context.Background(), "k", Intensity{GramsPerKWh: 10}, time.Minute)

		got, ok := store.Get(context.Background(), "k")
		require.True(t, ok)
		assert.InDelta(t, 10.0, got.GramsPerKWh, 1e-9)
	})
}
