package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreErrorKinds(t *testing.T) {
	cause := errors.New("boom")

	nf := NotFound(cause)
	assert.True(t, IsNotFound(nf))
	assert.True(t, errors.Is(nf, ErrNotFound))
	assert.True(t, errors.Is(nf, cause))

	other := Other(cause)
	assert.False(t, IsNotFound(other))
	assert.False(t, errors.Is(other, ErrNotFound))
	assert.True(t, errors.Is(other, cause))
	assert.Contains(t, other.Error(), "boom")
}

func TestOther_KeepsTaggedCause(t *testing.T) {
	nf := NotFound(nil)
	assert.Same(t, nf, Other(nf))
	assert.True(t, IsNotFound(Other(fmt.Errorf("wrapped: %w", nf))))
}

func TestIsNotFound_PlainErrors(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(ErrNotFound), "untagged sentinel is not a store error")
}
