package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingSpan struct {
	noop.Span

	errs        []error
	code        codes.Code
	description string
}

func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) {
	s.errs = append(s.errs, err)
}

func (s *recordingSpan) SetStatus(code codes.Code, description string) {
	s.code = code
	s.description = description
}

func TestRecordError(t *testing.T) {
	span := &recordingSpan{}
	err := errors.New("freepik error: 503")

	RecordError(span, err)

	assert.Equal(t, []error{err}, span.errs)
	assert.Equal(t, codes.Error, span.code)
	assert.Equal(t, "freepik error: 503", span.description)
}
