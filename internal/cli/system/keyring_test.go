package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"url with password", "postgres://alice:secret@db:5432/app", "postgres://alice:%2A%2A%2A%2A@db:5432/app"},
		{"url without password", "postgres://alice@db/app", "postgres://alice@db/app"},
		{"dsn with password", "host=db user=alice password=secret dbname=app", "host=db user=alice password=**** dbname=app"},
		{"dsn without password", "host=db dbname=app", "host=db dbname=app"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskPassword(tt.input))
		})
	}
}
