package listener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bazarlab/marketplace-service/internal/category/dto"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/stretchr/testify/assert"
)

type fakeReader struct {
	messages [][]byte
	cancel   context.CancelFunc
	failures int
}

func (f *fakeReader) ReadMessage(ctx context.Context) ([]byte, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("broker unavailable")
	}
	if len(f.messages) == 0 {
		f.cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	m := f.messages[0]
	f.messages = f.messages[1:]
	return m, nil
}

type countingUseCase struct {
	invalidations int
}

func (u *countingUseCase) ListCategories(context.Context, *dto.CategoryFilters) ([]dto.CategoryNode, error) {
	return nil, nil
}

func (u *countingUseCase) GetCategoryAttributes(context.Context, string, string) ([]dto.AttributeNode, error) {
	return nil, nil
}

func (u *countingUseCase) InvalidateCache(context.Context) error {
	u.invalidations++
	return nil
}

func TestListenerInvalidatesOnTaxonomyChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &fakeReader{cancel: cancel, failures: 1, messages: [][]byte{
		[]byte(`{"event_id":"1","event_type":"TaxonomyChanged","payload":{}}`),
		[]byte(`{"event_id":"2","event_type":"ListingCreated","payload":{}}`),
		[]byte(`not json`),
		[]byte(`{"event_id":"3","event_type":"TaxonomyChanged"}`),
	}}
	uc := &countingUseCase{}
	l := newListener(reader, uc, logger.NewNop())
	l.retry = time.Millisecond

	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
	assert.Equal(t, 2, uc.invalidations)
}
