package tasks

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLookAheadDays(t *testing.T) {
	p := &Processor{defaultLookAheadDays: 1, log: zerolog.Nop()}

	tests := []struct {
		name   string
		values map[string]interface{}
		want   int
	}{
		{
			name:   "parses configured value",
			values: map[string]interface{}{"lookAheadDays": "3"},
			want:   3,
		},
		{
			name:   "missing falls back to default",
			values: map[string]interface{}{},
			want:   1,
		},
		{
			name:   "garbage falls back to default",
			values: map[string]interface{}{"lookAheadDays": "soon"},
			want:   1,
		},
		{
			name:   "non-positive falls back to default",
			values: map[string]interface{}{"lookAheadDays": "0"},
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := redis.XMessage{ID: "1-0", Values: tt.values}
			assert.Equal(t, tt.want, p.lookAheadDays(msg))
		})
	}
}

func TestHandleUnknownTaskIsDropped(t *testing.T) {
	p := &Processor{defaultLookAheadDays: 1, log: zerolog.Nop()}

	msg := redis.XMessage{ID: "1-0", Values: map[string]interface{}{"type": "resize_thumbnails"}}

	// Unknown tasks must not error, or they would never be acked.
	assert.NoError(t, p.Handle(context.Background(), msg))
}
