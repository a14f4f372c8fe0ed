package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"invomail/internal/domain"
	"invomail/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty message", domain.ErrEmptyMessage, http.StatusBadRequest, "EMPTY_MESSAGE"},
		{"malformed message", domain.ErrMalformedMessage, http.StatusBadRequest, "MALFORMED_MESSAGE"},
		{"no recipient", domain.ErrNoRecipient, http.StatusUnprocessableEntity, "NO_RECIPIENT"},
		{"wrapped domain error", fmt.Errorf("processing: %w", domain.ErrMalformedMessage), http.StatusBadRequest, "MALFORMED_MESSAGE"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}
