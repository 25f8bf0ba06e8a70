package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solaretl/internal/domain"
	"solaretl/pkg/logger"
)

// mockObjectStore implements domain.ObjectStore for testing
type mockObjectStore struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (m *mockObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = append([]byte(nil), body...)
	m.contentTypes[key] = contentType
	return nil
}

func testDate(day int) time.Time {
	return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
}

func sampleRows() []domain.AggregatedRow {
	return []domain.AggregatedRow{
		{
			Date:            testDate(1),
			DeviceType:      "Desktop",
			Section:         "News",
			SubSection:      "Photos_Diapo",
			Impressions:     100,
			Revenue:         5.5,
			TotalAdRequests: 120,
		},
		{
			Date:            testDate(1),
			DeviceType:      "Mobile Web",
			Section:         "amp",
			SubSection:      "Other",
			Impressions:     7,
			Revenue:         0.25,
			TotalAdRequests: 9,
		},
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(testDate(1))
	assert.Equal(t, "internal/applications/solar/gam/solar_20mn_ads.gam_revenue_page_2024-01-01.csv", key)
}

func TestEncodeCSV(t *testing.T) {
	body, err := EncodeCSV(sampleRows())
	require.NoError(t, err)

	want := "date,device_type,section,sub_section,impressions,revenue,total_ad_requests\n" +
		"2024-01-01,Desktop,News,Photos_Diapo,100,5.5,120\n" +
		"2024-01-01,Mobile Web,amp,Other,7,0.25,9\n"
	assert.Equal(t, want, string(body))
}

func TestEncodeCSVEmptyTable(t *testing.T) {
	// an empty post-filter result still produces a header-only CSV
	body, err := EncodeCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "date,device_type,section,sub_section,impressions,revenue,total_ad_requests\n", string(body))
}

func TestPublish(t *testing.T) {
	store := newMockObjectStore()
	publisher := NewPublisher(store, logger.New("error"))

	key, err := publisher.Publish(context.Background(), sampleRows(), testDate(1))
	require.NoError(t, err)

	assert.Equal(t, ObjectKey(testDate(1)), key)
	assert.Equal(t, "text/csv", store.contentTypes[key])
	assert.NotEmpty(t, store.objects[key])
}

func TestPublishIdempotent(t *testing.T) {
	store := newMockObjectStore()
	publisher := NewPublisher(store, logger.New("error"))

	key, err := publisher.Publish(context.Background(), sampleRows(), testDate(1))
	require.NoError(t, err)
	first := append([]byte(nil), store.objects[key]...)

	_, err = publisher.Publish(context.Background(), sampleRows(), testDate(1))
	require.NoError(t, err)

	assert.Equal(t, first, store.objects[key])
}

func TestPublishUploadFailure(t *testing.T) {
	store := newMockObjectStore()
	store.putErr = errors.New("quota exceeded")
	publisher := NewPublisher(store, logger.New("error"))

	_, err := publisher.Publish(context.Background(), sampleRows(), testDate(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
