package redis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestIsKeyMissing(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"redis nil", redis.Nil, true},
		{"rename on missing key", errors.New("ERR no such key"), true},
		{"wrapped", fmt.Errorf("rename dirty set: %w", errors.New("ERR no such key")), true},
		{"real failure", errors.New("connection refused"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsKeyMissing(c.err); got != c.want {
				t.Fatalf("IsKeyMissing(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}
