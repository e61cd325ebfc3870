package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicr/internal/domain"
)

func TestCleanResponse_BareObject(t *testing.T) {
	out, err := CleanResponse(`{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
}

func TestCleanResponse_JSONFence(t *testing.T) {
	out, err := CleanResponse("```json\n{\"a\": 1}\n```")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
}

func TestCleanResponse_PlainFence(t *testing.T) {
	out, err := CleanResponse("```\n{\"a\": 1}\n```")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
}

func TestCleanResponse_BraceSpanExtraction(t *testing.T) {
	out, err := CleanResponse(`Here is the result: {"a": {"b": 2}} hope that helps`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 2}}`, out)
}

func TestCleanResponse_NoObject(t *testing.T) {
	_, err := CleanResponse("sorry, I cannot read this image")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedOutput))
}

func TestCleanResponse_Whitespace(t *testing.T) {
	out, err := CleanResponse("  \n {\"a\": 1} \n ")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
}
