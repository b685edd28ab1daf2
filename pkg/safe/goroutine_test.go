package safe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDo(t *testing.T) {
	assert.NotPanics(t, func() {
		ok := Do(func() { panic("boom") })
		assert.False(t, ok)
	})
	assert.True(t, Do(func() {}))
}

func TestGo(t *testing.T) {
	done := make(chan struct{})
	Go(func() {
		defer close(done)
		panic("boom in goroutine")
	})
	<-done
}
