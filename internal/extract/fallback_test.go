package extract_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invomail/internal/extract"
	"invomail/internal/port"
	"invomail/mocks"
)

func fallbackOutput(model string) *port.ExtractOutput {
	return &port.ExtractOutput{
		Text:      `[{"source": "attachment", "filename": "a.pdf", "total": 10, "items": []}]`,
		ModelUsed: model,
	}
}

func fallbackInput() port.ExtractInput {
	return port.ExtractInput{
		Prompt:    "extract",
		Documents: []port.ModelDocument{{Data: []byte("%PDF-1.4"), Name: "a_pdf"}},
	}
}

func TestFallbackModel_FirstSucceeds(t *testing.T) {
	m1 := new(mocks.MockDocumentModel)
	m2 := new(mocks.MockDocumentModel)

	input := fallbackInput()
	m1.On("Extract", mock.Anything, input).Return(fallbackOutput("bedrock"), nil)

	fm := extract.NewFallbackModel(
		[]port.DocumentModel{m1, m2},
		[]string{"bedrock", "anthropic"},
	)

	result, err := fm.Extract(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "bedrock", result.ModelUsed)
	m2.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestFallbackModel_FirstFails_SecondSucceeds(t *testing.T) {
	m1 := new(mocks.MockDocumentModel)
	m2 := new(mocks.MockDocumentModel)

	input := fallbackInput()
	m1.On("Extract", mock.Anything, input).Return(nil, errors.New("generic error"))
	m2.On("Extract", mock.Anything, input).Return(fallbackOutput("anthropic"), nil)

	fm := extract.NewFallbackModel(
		[]port.DocumentModel{m1, m2},
		[]string{"bedrock", "anthropic"},
	)

	result, err := fm.Extract(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "anthropic", result.ModelUsed)
}

func TestFallbackModel_FirstRateLimited_SecondSucceeds(t *testing.T) {
	m1 := new(mocks.MockDocumentModel)
	m2 := new(mocks.MockDocumentModel)

	input := fallbackInput()
	m1.On("Extract", mock.Anything, input).Return(nil, extract.NewRateLimitError("bedrock", errors.New("429"), 60))
	m2.On("Extract", mock.Anything, input).Return(fallbackOutput("anthropic"), nil)

	fm := extract.NewFallbackModel(
		[]port.DocumentModel{m1, m2},
		[]string{"bedrock", "anthropic"},
	)

	result, err := fm.Extract(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "anthropic", result.ModelUsed)
}

func TestFallbackModel_AllRateLimited(t *testing.T) {
	m1 := new(mocks.MockDocumentModel)
	m2 := new(mocks.MockDocumentModel)

	input := fallbackInput()
	m1.On("Extract", mock.Anything, input).Return(nil, extract.NewRateLimitError("bedrock", errors.New("429"), 60))
	m2.On("Extract", mock.Anything, input).Return(nil, extract.NewRateLimitError("anthropic", errors.New("429"), 30))

	fm := extract.NewFallbackModel(
		[]port.DocumentModel{m1, m2},
		[]string{"bedrock", "anthropic"},
	)

	result, err := fm.Extract(context.Background(), input)

	assert.Nil(t, result)
	assert.Error(t, err)

	var rlErr *extract.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
}

func TestFallbackModel_AllFail_NonRateLimit(t *testing.T) {
	m1 := new(mocks.MockDocumentModel)
	m2 := new(mocks.MockDocumentModel)

	input := fallbackInput()
	m1.On("Extract", mock.Anything, input).Return(nil, errors.New("error 1"))
	m2.On("Extract", mock.Anything, input).Return(nil, errors.New("error 2"))

	fm := extract.NewFallbackModel(
		[]port.DocumentModel{m1, m2},
		[]string{"bedrock", "anthropic"},
	)

	result, err := fm.Extract(context.Background(), input)

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "all model providers failed")

	var rlErr *extract.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestFallbackModel_CircuitAutoCloses(t *testing.T) {
	m1 := new(mocks.MockDocumentModel)
	m2 := new(mocks.MockDocumentModel)

	input := fallbackInput()

	// First call: m1 rate limited with 1s retry, m2 succeeds
	m1.On("Extract", mock.Anything, input).Return(nil, extract.NewRateLimitError("bedrock", errors.New("429"), 1)).Once()
	m2.On("Extract", mock.Anything, input).Return(fallbackOutput("anthropic"), nil).Once()

	fm := extract.NewFallbackModel(
		[]port.DocumentModel{m1, m2},
		[]string{"bedrock", "anthropic"},
	)

	result, err := fm.Extract(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, "anthropic", result.ModelUsed)

	// Wait for circuit to auto-close
	time.Sleep(1100 * time.Millisecond)

	// Second call: m1 should be retried and succeed
	m1.On("Extract", mock.Anything, input).Return(fallbackOutput("bedrock"), nil).Once()

	result, err = fm.Extract(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, "bedrock", result.ModelUsed)
}

func TestFallbackModel_SkipsOpenCircuit(t *testing.T) {
	m1 := new(mocks.MockDocumentModel)
	m2 := new(mocks.MockDocumentModel)

	input := fallbackInput()

	// First call: m1 rate limited with 60s, m2 succeeds
	m1.On("Extract", mock.Anything, input).Return(nil, extract.NewRateLimitError("bedrock", errors.New("429"), 60)).Once()
	m2.On("Extract", mock.Anything, input).Return(fallbackOutput("anthropic"), nil)

	fm := extract.NewFallbackModel(
		[]port.DocumentModel{m1, m2},
		[]string{"bedrock", "anthropic"},
	)

	result, err := fm.Extract(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, "anthropic", result.ModelUsed)

	// Second call immediately: m1 should be skipped (circuit still open)
	result, err = fm.Extract(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, "anthropic", result.ModelUsed)

	m1.AssertNumberOfCalls(t, "Extract", 1)
}

func TestFallbackModel_SingleModel(t *testing.T) {
	m1 := new(mocks.MockDocumentModel)

	input := fallbackInput()
	m1.On("Extract", mock.Anything, input).Return(fallbackOutput("bedrock"), nil)

	fm := extract.NewFallbackModel(
		[]port.DocumentModel{m1},
		[]string{"bedrock"},
	)

	result, err := fm.Extract(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "bedrock", result.ModelUsed)
}

func TestFallbackModel_ConcurrentSafety(t *testing.T) {
	m1 := new(mocks.MockDocumentModel)
	m2 := new(mocks.MockDocumentModel)

	input := fallbackInput()
	m1.On("Extract", mock.Anything, input).Return(nil, extract.NewRateLimitError("bedrock", errors.New("429"), 5)).Maybe()
	m2.On("Extract", mock.Anything, input).Return(fallbackOutput("anthropic"), nil).Maybe()

	fm := extract.NewFallbackModel(
		[]port.DocumentModel{m1, m2},
		[]string{"bedrock", "anthropic"},
	)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := fm.Extract(context.Background(), input)
			assert.NoError(t, err)
			assert.NotNil(t, result)
		}()
	}
	wg.Wait()
}
