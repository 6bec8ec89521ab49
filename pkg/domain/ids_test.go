package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "siteops/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseUserID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(raw), id)
	})
}

func TestParseDocumentID_TrustBoundary(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"sql injection", "'; DROP TABLE documents;--"},
		{"oversized input", strings.Repeat("a", 1000)},
		{"trailing null byte", "550e8400-e29b-41d4-a716-446655440000\x00"},
		{"path traversal", "../../etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocumentID(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestDocumentID_UnmarshalText(t *testing.T) {
	raw := uuid.New()
	var id DocumentID
	require.NoError(t, id.UnmarshalText([]byte(raw.String())))
	assert.Equal(t, raw.String(), id.String())

	assert.Error(t, id.UnmarshalText([]byte("nope")))
}

func TestParseDocumentKind(t *testing.T) {
	k, err := ParseDocumentKind("risk_pack")
	require.NoError(t, err)
	assert.Equal(t, DocumentKindRiskPack, k)

	_, err = ParseDocumentKind("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = ParseDocumentKind("memo")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), "unknown kinds must not fall back to a default")
}
