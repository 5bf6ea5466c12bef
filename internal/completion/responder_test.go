package completion

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/zhengjr9/llm-stream-sim/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
		wantMsg string
	}{
		{name: "valid", req: Request{Prompt: "hello", Stream: true}},
		{name: "empty prompt", req: Request{Prompt: "", Stream: true}, wantErr: apierrors.ErrEmptyPrompt, wantMsg: "Prompt cannot be empty"},
		{name: "blank prompt", req: Request{Prompt: " \t\n ", Stream: true}, wantErr: apierrors.ErrEmptyPrompt, wantMsg: "Prompt cannot be empty"},
		{name: "stream false", req: Request{Prompt: "hello", Stream: false}, wantErr: apierrors.ErrStreamDisabled, wantMsg: "stream parameter must be true"},
		{name: "prompt checked first", req: Request{Prompt: "", Stream: false}, wantErr: apierrors.ErrEmptyPrompt, wantMsg: "Prompt cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)

			var verr *apierrors.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantMsg, verr.Message)
			assert.Equal(t, 400, verr.Code)
			assert.Equal(t, apierrors.KindValidation, verr.Kind())
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Request
		wantErr bool
	}{
		{name: "valid", body: `{"prompt":"hi","stream":true}`, want: Request{Prompt: "hi", Stream: true}},
		{name: "stream false", body: `{"prompt":"hi","stream":false}`, want: Request{Prompt: "hi"}},
		{name: "empty prompt present", body: `{"prompt":"","stream":true}`, want: Request{Stream: true}},
		{name: "missing prompt", body: `{"stream":true}`, wantErr: true},
		{name: "missing stream", body: `{"prompt":"hi"}`, wantErr: true},
		{name: "null", body: `null`, wantErr: true},
		{name: "not json", body: `prompt=hi`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
		{name: "wrong type", body: `{"prompt":1,"stream":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest(strings.NewReader(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, apierrors.ErrMalformedBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponder_Respond(t *testing.T) {
	r := NewResponder()

	s, err := r.Respond(Request{Prompt: "hello", Stream: true})
	require.NoError(t, err)
	assert.Equal(t, len(Split(BuildContent("hello"))), s.Len())
	assert.Equal(t, PaceInterval, s.pace)

	_, err = r.Respond(Request{Prompt: "hello"})
	assert.ErrorIs(t, err, apierrors.ErrStreamDisabled)
}

func TestResponder_PaceFlowsToStream(t *testing.T) {
	r := &Responder{pace: 0}

	s, err := r.Respond(Request{Prompt: "hello", Stream: true})
	require.NoError(t, err)
	assert.Zero(t, s.pace)

	start := time.Now()
	for {
		if _, err := s.Next(context.Background()); err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}
	assert.Less(t, time.Since(start), PaceInterval)
}
