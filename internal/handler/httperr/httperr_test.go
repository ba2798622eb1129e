//go:build unit

package httperr_test

import (
	"net/http"
	"testing"

	"booking-core/internal/handler/httperr"
	"booking-core/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &errs.ValidationError{Field: "email", Message: "invalid"}, http.StatusBadRequest},
		{"not found", errs.Wrap(errs.NotFound("booking missing"), "load"), http.StatusNotFound},
		{"conflict", errs.Conflict("slot taken"), http.StatusConflict},
		{"business rule", errs.Wrap(errs.Rule("too late"), "cancel"), http.StatusUnprocessableEntity},
		{"unclassified", errs.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, httperr.StatusOf(tt.err))
		})
	}
}
