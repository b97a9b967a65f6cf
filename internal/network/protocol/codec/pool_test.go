package codec

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessagePool_GetPut(t *testing.T) {
	t.Parallel()

	// Get message from pool
	msg := GetMessage()
	assert.NotNil(t, msg)

	// Use the message
	msg.Type = "test"
	msg.Payload = []byte("data")

	// Put back to pool
	PutMessage(msg)

	// Get again - should be reset
	msg2 := GetMessage()
	assert.NotNil(t, msg2)
	assert.Empty(t, msg2.Type)
	assert.Nil(t, msg2.Payload)
}

func TestMessagePool_PutNil(t *testing.T) {
	t.Parallel()

	// Should not panic
	assert.NotPanics(t, func() {
		PutMessage(nil)
	})
}

func TestBufferPool_GetPut(t *testing.T) {
	t.Parallel()

	// Get buffer from pool
	buf := GetBuffer()
	assert.NotNil(t, buf)
	assert.Equal(t, 0, buf.Len())

	// Write some data
	buf.WriteString("hello")
	assert.Equal(t, 5, buf.Len())

	// Put back to pool
	PutBuffer(buf)

	// Get again - should be reset
	buf2 := GetBuffer()
	assert.NotNil(t, buf2)
	assert.Equal(t, 0, buf2.Len())
}

func TestBufferPool_PutNil(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		PutBuffer(nil)
	})
}

func TestMessagePool_Concurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				msg := GetMessage()
				msg.Type = "concurrent"
				PutMessage(msg)

				buf := GetBuffer()
				buf.WriteString("concurrent")
				PutBuffer(buf)
			}
		}()
	}
	wg.Wait()
}
