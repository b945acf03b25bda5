package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(KindValidation, "validate", "latitude out of range"),
			want: "validate: latitude out of range",
		},
		{
			name: "wrapped only",
			err:  Wrap(KindStore, "insert", errors.New("disk full")),
			want: "insert: disk full",
		},
		{
			name: "message and wrapped",
			err:  &Error{Kind: KindStore, Op: "insert", Msg: "base row", Err: errors.New("disk full")},
			want: "insert: base row: disk full",
		},
		{
			name: "op only",
			err:  &Error{Kind: KindRouting, Op: "route"},
			want: "route",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	err := Newf(KindNotFound, "delete", "no record for %q", "Moab, Utah")

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, kind)

	wrapped := fmt.Errorf("outer: %w", err)
	kind, ok = KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, IsNotFound(New(KindNotFound, "get", "absent")))
	assert.False(t, IsNotFound(New(KindStore, "get", "broken")))
	assert.True(t, IsValidation(New(KindValidation, "validate", "bad score")))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "generation", KindGeneration.String())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "store", KindStore.String())
	assert.Equal(t, "routing", KindRouting.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
